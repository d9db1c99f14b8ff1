// Package latex implements the compilation pipeline: structural validation
// with best-effort auto-repair, a primary latexmk strategy with a multi-pass
// pdflatex fallback, log classification, and diagnostic composition.
package latex

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cvitae/latexsvc/internal/errors"
	"github.com/cvitae/latexsvc/internal/logfields"
	"github.com/cvitae/latexsvc/internal/metrics"
	"github.com/cvitae/latexsvc/internal/runner"
	"github.com/cvitae/latexsvc/internal/workspace"
)

// fallbackPasses is the fixed pass budget for the pdflatex fallback.
// Cross-reference resolution is not stable within one pass, so the engine
// is rerun over the same source until it exits zero or the budget is spent.
const fallbackPasses = 3

// Options configures a Compiler.
type Options struct {
	LatexmkBin  string // defaults to "latexmk"
	PdflatexBin string // defaults to "pdflatex"
	// AttemptTimeout bounds each external invocation. Zero means no deadline.
	AttemptTimeout time.Duration
}

// Compiler orchestrates LaTeX compilation over isolated workspaces. It is an
// explicitly constructed service value: no package-level singleton, so each
// handler receives its dependencies by reference.
type Compiler struct {
	workspaces *workspace.Manager
	run        runner.Runner
	recorder   metrics.Recorder
	opts       Options
}

// NewCompiler wires a compiler from its collaborators. A nil recorder is
// replaced with a no-op.
func NewCompiler(ws *workspace.Manager, run runner.Runner, rec metrics.Recorder, opts Options) *Compiler {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if opts.LatexmkBin == "" {
		opts.LatexmkBin = "latexmk"
	}
	if opts.PdflatexBin == "" {
		opts.PdflatexBin = "pdflatex"
	}
	return &Compiler{workspaces: ws, run: run, recorder: rec, opts: opts}
}

// Compile validates the source, materializes it into a fresh workspace, and
// drives the toolchain: latexmk first, then up to three pdflatex passes. The
// returned Job carries the full attempt history; on failure the error is a
// CompilationFailed (or OutputMissing) with the composed diagnostic and the
// workspace is deliberately left in place for inspection.
func (c *Compiler) Compile(ctx context.Context, source, name string) (*Job, error) {
	prepared, err := PrepareSource(source)
	if err != nil {
		return nil, err
	}
	repaired := !strings.Contains(source, markerEndDocument)
	if repaired {
		slog.Warn("LaTeX content missing \\end{document}, auto-repaired", logfields.Job(name))
	}

	ws, err := c.workspaces.Allocate(name)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryWorkspace, errors.CodeInternal, "failed to allocate workspace")
	}

	texPath, err := ws.WriteSource(prepared)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryWorkspace, errors.CodeInternal, "failed to write source")
	}

	job := &Job{
		Name:      ws.Name,
		Token:     ws.Token,
		Dir:       ws.Dir,
		Repaired:  repaired,
		CreatedAt: time.Now(),
	}
	slog.Info("Starting LaTeX compilation", logfields.Job(job.Name), logfields.Token(job.Token))

	c.recorder.AddActiveJobs(1)
	defer c.recorder.AddActiveJobs(-1)
	defer func() {
		job.FinishedAt = time.Now()
		c.recorder.ObserveCompileDuration(job.Duration())
		c.recorder.IncCompileOutcome(string(job.Status))
	}()

	ok := c.runPrimary(ctx, job, ws, texPath)
	if !ok {
		slog.Warn("latexmk failed, trying direct pdflatex compilation", logfields.Job(job.Name))
		ok = c.runFallback(ctx, job, ws, texPath)
	}

	if !ok {
		return job, c.fail(job, ws)
	}

	// A zero exit code alone is not proof of success: the toolchain can
	// exit clean without leaving the artifact behind.
	pdfPath := ws.ArtifactPath("pdf")
	if _, statErr := os.Stat(pdfPath); statErr != nil {
		slog.Error("PDF file was not generated", logfields.Job(job.Name), logfields.Path(pdfPath))
		job.Status = StatusFailed
		return job, errors.OutputMissing(pdfPath)
	}

	job.Status = StatusSucceeded
	job.PDFPath = pdfPath
	if pages, pErr := PageCount(pdfPath); pErr == nil {
		job.Pages = pages
	} else {
		slog.Warn("Produced PDF could not be read back", logfields.Path(pdfPath), logfields.Error(pErr))
	}

	slog.Info("Successfully compiled LaTeX to PDF",
		logfields.Job(job.Name),
		logfields.Path(pdfPath),
		logfields.Pages(job.Pages),
		logfields.DurationMS(float64(time.Since(job.CreatedAt).Milliseconds())))
	return job, nil
}

// runPrimary invokes latexmk once. Returns true on a zero exit.
func (c *Compiler) runPrimary(ctx context.Context, job *Job, ws *workspace.Workspace, texPath string) bool {
	args := []string{
		"-pdf",
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-file-line-error",
		"-output-directory=" + ws.Dir,
		texPath,
	}
	att, runErr := c.attempt(ctx, job, StrategyLatexmk, 1, ws.Dir, c.opts.LatexmkBin, args)
	return runErr == nil && att.ExitCode == 0
}

// runFallback reruns pdflatex over the same source up to fallbackPasses
// times, stopping early at the first zero exit. A run error (timeout,
// missing binary) aborts the remaining passes.
func (c *Compiler) runFallback(ctx context.Context, job *Job, ws *workspace.Workspace, texPath string) bool {
	args := []string{
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-file-line-error",
		"-output-directory=" + ws.Dir,
		texPath,
	}
	for pass := 1; pass <= fallbackPasses; pass++ {
		att, runErr := c.attempt(ctx, job, StrategyPdflatex, pass, ws.Dir, c.opts.PdflatexBin, args)
		if runErr != nil {
			return false
		}
		if att.ExitCode == 0 {
			slog.Info("Direct pdflatex succeeded", logfields.Job(job.Name), logfields.Pass(pass))
			return true
		}
		if pass == 1 {
			slog.Debug("pdflatex pass failed", logfields.Job(job.Name), logfields.Pass(pass), logfields.ExitCode(att.ExitCode))
		}
	}
	return false
}

// attempt runs one external invocation under the per-attempt deadline and
// appends its record to the job.
func (c *Compiler) attempt(ctx context.Context, job *Job, strategy Strategy, pass int, dir, bin string, args []string) (*Attempt, error) {
	attemptCtx := ctx
	if c.opts.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.opts.AttemptTimeout)
		defer cancel()
	}

	start := time.Now()
	res, runErr := c.run.Run(attemptCtx, dir, bin, args...)
	att := Attempt{
		Strategy: strategy,
		Pass:     pass,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		Duration: time.Since(start),
	}
	if runErr != nil {
		if att.ExitCode == 0 {
			att.ExitCode = -1
		}
		att.Stderr = strings.TrimSpace(att.Stderr + "\n" + runErr.Error())
		slog.Error("Compilation command could not run", logfields.Job(job.Name), logfields.Strategy(string(strategy)), logfields.Error(runErr))
	}
	job.Attempts = append(job.Attempts, att)

	result := metrics.ResultSuccess
	if runErr != nil || att.ExitCode != 0 {
		result = metrics.ResultFailure
	}
	c.recorder.IncAttempt(string(strategy), result)
	return job.LastAttempt(), runErr
}

// fail reads the build log best-effort, classifies it, composes the combined
// diagnostic, and marks the job failed. The workspace is not cleaned up on
// this path so the artifacts remain available for inspection.
func (c *Compiler) fail(job *Job, ws *workspace.Workspace) error {
	last := job.LastAttempt()

	logContent := ""
	logPath := ws.ArtifactPath("log")
	if data, err := os.ReadFile(logPath); err == nil {
		// TeX logs are not reliably UTF-8; keep whatever bytes decode.
		logContent = strings.ToValidUTF8(string(data), "")
	}

	report := ClassifyLog(logContent)
	tail := TailLog(logContent)
	last.LogExcerpt = tail

	diagnostic := BuildDiagnostic(string(last.Strategy), last.ExitCode, last.Stdout, last.Stderr, tail, report)
	slog.Error("LaTeX compilation failed",
		logfields.Job(job.Name),
		logfields.Strategy(string(last.Strategy)),
		logfields.ExitCode(last.ExitCode),
		slog.Int("attempts", len(job.Attempts)))

	job.Status = StatusFailed
	compErr := errors.CompilationFailed(diagnostic).
		WithContext("attempts", len(job.Attempts)).
		WithContext("workspace", ws.Dir)
	if len(report) > 0 {
		compErr = compErr.WithContext("error_analysis", report)
	}
	return compErr
}
