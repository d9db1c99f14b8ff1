package runner

import (
	"context"
	"log/slog"

	"github.com/cvitae/latexsvc/internal/errors"
	"github.com/cvitae/latexsvc/internal/logfields"
)

// Tool describes an external binary the service depends on.
type Tool struct {
	Name        string
	VersionFlag string
}

// RequiredTools lists the external toolchain. latexmk uses a single-dash
// version flag; the others take the conventional double dash.
func RequiredTools(latexmk, pdflatex, convert string) []Tool {
	return []Tool{
		{Name: latexmk, VersionFlag: "-version"},
		{Name: pdflatex, VersionFlag: "--version"},
		{Name: convert, VersionFlag: "--version"},
	}
}

// VerifyTools probes each tool by invoking its version flag. Any tool that
// cannot be run or exits nonzero is collected, and a single fatal
// MissingDependency error is returned so the service fails fast at startup
// instead of per-request.
func VerifyTools(ctx context.Context, r Runner, tools []Tool) error {
	var missing []string
	for _, tool := range tools {
		res, err := r.Run(ctx, "", tool.Name, tool.VersionFlag)
		if err != nil || res.ExitCode != 0 {
			slog.Error("Dependency probe failed", slog.String("tool", tool.Name), logfields.Error(err), logfields.ExitCode(res.ExitCode))
			missing = append(missing, tool.Name)
			continue
		}
		slog.Info("Dependency available", slog.String("tool", tool.Name))
	}
	if len(missing) > 0 {
		return errors.MissingDependency(missing)
	}
	return nil
}
