package latex

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	svcerrors "github.com/cvitae/latexsvc/internal/errors"
	"github.com/cvitae/latexsvc/internal/runner"
	"github.com/cvitae/latexsvc/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// call records one invocation the fake runner received.
type call struct {
	dir  string
	bin  string
	args []string
}

// fakeRunner scripts external process outcomes per invocation. The script
// function may create files in the working directory the way the real
// toolchain would.
type fakeRunner struct {
	calls  []call
	script func(n int, dir, bin string) (runner.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, dir, bin string, args ...string) (runner.Result, error) {
	f.calls = append(f.calls, call{dir: dir, bin: bin, args: args})
	return f.script(len(f.calls), dir, bin)
}

func writePDF(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.pdf"), []byte("%PDF-1.5 fake"), 0o640))
}

func newTestCompiler(t *testing.T, fr *fakeRunner) *Compiler {
	t.Helper()
	return NewCompiler(workspace.NewManager(t.TempDir()), fr, nil, Options{})
}

func TestCompile_PrimarySucceeds(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		writePDF(t, dir)
		return runner.Result{ExitCode: 0, Stdout: "Latexmk: All targets up-to-date"}, nil
	}}
	c := newTestCompiler(t, fr)

	job, err := c.Compile(context.Background(), minimalDoc, "resume")
	require.NoError(t, err)

	assert.Equal(t, StatusSucceeded, job.Status)
	require.Len(t, job.Attempts, 1)
	assert.Equal(t, StrategyLatexmk, job.Attempts[0].Strategy)
	assert.Equal(t, filepath.Join(job.Dir, "resume.pdf"), job.PDFPath)
	assert.FileExists(t, job.PDFPath)
}

func TestCompile_PrimaryInvocationFlags(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		writePDF(t, dir)
		return runner.Result{}, nil
	}}
	c := newTestCompiler(t, fr)

	job, err := c.Compile(context.Background(), minimalDoc, "resume")
	require.NoError(t, err)

	first := fr.calls[0]
	assert.Equal(t, "latexmk", first.bin)
	assert.Equal(t, job.Dir, first.dir)
	assert.Equal(t, []string{
		"-pdf",
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-file-line-error",
		"-output-directory=" + job.Dir,
		filepath.Join(job.Dir, "resume.tex"),
	}, first.args)
}

func TestCompile_FallbackSucceedsOnSecondPass(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		switch n {
		case 1: // latexmk
			return runner.Result{ExitCode: 2, Stderr: "latexmk: errors"}, nil
		case 2: // pdflatex pass 1
			return runner.Result{ExitCode: 1}, nil
		default: // pdflatex pass 2
			writePDF(t, dir)
			return runner.Result{ExitCode: 0}, nil
		}
	}}
	c := newTestCompiler(t, fr)

	job, err := c.Compile(context.Background(), minimalDoc, "resume")
	require.NoError(t, err)

	assert.Equal(t, StatusSucceeded, job.Status)
	// Exactly one primary attempt followed by fallback passes, stopping at
	// the first success.
	require.Len(t, job.Attempts, 3)
	assert.Equal(t, StrategyLatexmk, job.Attempts[0].Strategy)
	assert.Equal(t, StrategyPdflatex, job.Attempts[1].Strategy)
	assert.Equal(t, 1, job.Attempts[1].Pass)
	assert.Equal(t, StrategyPdflatex, job.Attempts[2].Strategy)
	assert.Equal(t, 2, job.Attempts[2].Pass)
}

func TestCompile_AllStrategiesFail(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		if n == 1 {
			// The toolchain leaves a log behind for the failure path to read.
			log := "! Undefined control sequence.\nl.12 \\resumeItem\n"
			require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.log"), []byte(log), 0o640))
		}
		return runner.Result{ExitCode: 1, Stdout: "This is pdfTeX", Stderr: "boom"}, nil
	}}
	c := newTestCompiler(t, fr)

	job, err := c.Compile(context.Background(), minimalDoc, "resume")
	require.Error(t, err)

	assert.True(t, svcerrors.IsCode(err, svcerrors.CodeCompilationFailed))
	assert.Equal(t, StatusFailed, job.Status)
	// One primary attempt plus the full fallback pass budget.
	assert.Len(t, job.Attempts, 4)

	// Diagnostic carries the classified categories and raw output.
	assert.Contains(t, err.Error(), "UNDEFINED_COMMANDS: \\resumeItem")
	assert.Contains(t, err.Error(), "STDERR: boom")
	assert.Contains(t, err.Error(), "exit code: 1")

	// Workspace retained for postmortem inspection.
	assert.DirExists(t, job.Dir)
	assert.FileExists(t, filepath.Join(job.Dir, "resume.tex"))
	assert.NotEmpty(t, job.LastAttempt().LogExcerpt)
}

func TestCompile_ZeroExitWithoutArtifactIsOutputMissing(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		return runner.Result{ExitCode: 0}, nil // exits clean, writes nothing
	}}
	c := newTestCompiler(t, fr)

	job, err := c.Compile(context.Background(), minimalDoc, "resume")
	require.Error(t, err)
	assert.True(t, svcerrors.IsCode(err, svcerrors.CodeOutputMissing))
	assert.Equal(t, StatusFailed, job.Status)
	assert.DirExists(t, job.Dir)
}

func TestCompile_ValidationFailsBeforeAnyProcessRuns(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		t.Fatal("no external process should run for invalid input")
		return runner.Result{}, nil
	}}
	c := newTestCompiler(t, fr)

	_, err := c.Compile(context.Background(), "no markers at all", "resume")
	require.Error(t, err)
	assert.True(t, svcerrors.IsCode(err, svcerrors.CodeStructuralError))
	assert.Empty(t, fr.calls)
}

func TestCompile_AutoRepairWritesClosedDocument(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		writePDF(t, dir)
		return runner.Result{}, nil
	}}
	c := newTestCompiler(t, fr)

	src := "\\documentclass{article}\n\\begin{document}\nHello"
	job, err := c.Compile(context.Background(), src, "resume")
	require.NoError(t, err)
	assert.True(t, job.Repaired)

	data, err := os.ReadFile(filepath.Join(job.Dir, "resume.tex"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\\end{document}"))
}

func TestCompile_RunnerErrorAbortsFallbackPasses(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		if n == 1 {
			return runner.Result{ExitCode: 1}, nil
		}
		return runner.Result{}, context.DeadlineExceeded
	}}
	c := newTestCompiler(t, fr)

	job, err := c.Compile(context.Background(), minimalDoc, "resume")
	require.Error(t, err)
	assert.Equal(t, StatusFailed, job.Status)
	// latexmk plus a single aborted pdflatex pass; no pointless retries
	// after the process could not run at all.
	assert.Len(t, job.Attempts, 2)
	assert.Contains(t, job.LastAttempt().Stderr, "deadline exceeded")
}

func TestCompile_JobNameSanitized(t *testing.T) {
	fr := &fakeRunner{script: func(n int, dir, bin string) (runner.Result, error) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "myresume.pdf"), []byte("%PDF"), 0o640))
		return runner.Result{}, nil
	}}
	c := newTestCompiler(t, fr)

	job, err := c.Compile(context.Background(), minimalDoc, "my resume")
	require.NoError(t, err)
	assert.Equal(t, "myresume", job.Name)
	assert.Equal(t, filepath.Join(job.Dir, "myresume.pdf"), job.PDFPath)
}
