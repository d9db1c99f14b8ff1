// Package raster converts finished PDF artifacts into bitmap images by
// driving ImageMagick. It never triggers compilation: the PDF must already
// exist, and conversion is only ever attempted for jobs that succeeded.
package raster

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cvitae/latexsvc/internal/errors"
	"github.com/cvitae/latexsvc/internal/logfields"
	"github.com/cvitae/latexsvc/internal/metrics"
	"github.com/cvitae/latexsvc/internal/runner"
)

// Format is a supported raster output format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatJPEG Format = "jpeg"
)

// ParseFormat validates a requested format before any external process runs.
// The converter itself does not re-validate; this is the caller's gate.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatJPG:
		return FormatJPG, nil
	case FormatJPEG:
		return FormatJPEG, nil
	default:
		return "", errors.UnsupportedFormat(s)
	}
}

// MIME returns the format's MIME type.
func (f Format) MIME() string {
	switch f {
	case FormatJPG, FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Request references an existing PDF artifact to convert.
type Request struct {
	PDFPath string
	Name    string // job name, used for deterministic output naming
	Format  Format
	DPI     int
}

// Converter invokes the raster-conversion tool.
type Converter struct {
	run      runner.Runner
	recorder metrics.Recorder
	bin      string
	timeout  time.Duration
}

// NewConverter wires a converter. bin defaults to ImageMagick's "convert".
func NewConverter(run runner.Runner, rec metrics.Recorder, bin string, timeout time.Duration) *Converter {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if bin == "" {
		bin = "convert"
	}
	return &Converter{run: run, recorder: rec, bin: bin, timeout: timeout}
}

// Convert rasterizes the PDF at the requested density into
// {name}.{format} next to it. The white background and alpha flattening
// keep transparent PDF backgrounds from becoming artifacts in opaque
// formats. Fails with ConversionFailed on nonzero exit or missing output.
func (c *Converter) Convert(ctx context.Context, req Request) (string, error) {
	if _, err := os.Stat(req.PDFPath); err != nil {
		return "", errors.Wrap(err, errors.CategoryConvert, errors.CodeConversionFailed, "PDF artifact does not exist")
	}

	workDir := filepath.Dir(req.PDFPath)
	outputPath := filepath.Join(workDir, fmt.Sprintf("%s.%s", req.Name, req.Format))

	slog.Info("Converting PDF to image",
		logfields.Path(req.PDFPath),
		logfields.Format(string(req.Format)),
		logfields.DPI(req.DPI))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"-density", strconv.Itoa(req.DPI),
		"-quality", "100",
		"-background", "white",
		"-alpha", "remove",
		req.PDFPath,
		outputPath,
	}
	res, runErr := c.run.Run(ctx, workDir, c.bin, args...)
	if runErr != nil {
		c.recorder.IncConversion(string(req.Format), metrics.ResultFailure)
		return "", errors.Wrap(runErr, errors.CategoryConvert, errors.CodeConversionFailed, "conversion command could not run")
	}
	if res.ExitCode != 0 {
		c.recorder.IncConversion(string(req.Format), metrics.ResultFailure)
		msg := fmt.Sprintf("Image conversion failed (return code: %d)\nSTDERR: %s\nSTDOUT: %s",
			res.ExitCode, res.Stderr, res.Stdout)
		slog.Error("Image conversion failed", logfields.ExitCode(res.ExitCode), logfields.Format(string(req.Format)))
		return "", errors.ConversionFailed(msg)
	}

	if _, err := os.Stat(outputPath); err != nil {
		c.recorder.IncConversion(string(req.Format), metrics.ResultFailure)
		slog.Error("Image file was not generated", logfields.Path(outputPath))
		return "", errors.ConversionFailed("Image file was not generated").
			WithContext("expected_path", outputPath)
	}

	c.recorder.IncConversion(string(req.Format), metrics.ResultSuccess)
	slog.Info("Successfully converted PDF to image", logfields.Path(outputPath))
	return outputPath, nil
}
