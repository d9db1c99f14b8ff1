// Package runner provides a narrow command-runner capability: argv plus a
// working directory in, exit code and captured output out. Compilation and
// conversion logic depend on the Runner interface so they can be exercised
// against a fake without real external tools.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result captures the outcome of a finished external process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes an external command synchronously in the given working
// directory. A nonzero exit code is not an error: the process ran and
// finished, and the caller decides what the code means. An error is returned
// only when the process could not be run at all (binary missing, context
// deadline exceeded, workdir invalid).
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// ExecRunner is the os/exec-backed Runner used in production.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by exec.CommandContext.
func NewExecRunner() *ExecRunner { return &ExecRunner{} }

// Run executes name with args inside dir, capturing stdout and stderr.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		// The context killing the process also surfaces as an ExitError;
		// report it as a run failure so attempts distinguish timeout from
		// an ordinary toolchain failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("command %s: %w", name, ctxErr)
		}
		return res, nil
	}

	return res, fmt.Errorf("run command %s: %w", name, err)
}
