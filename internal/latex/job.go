package latex

import "time"

// Strategy identifies which external invocation produced an attempt.
type Strategy string

const (
	StrategyLatexmk  Strategy = "latexmk"
	StrategyPdflatex Strategy = "pdflatex"
)

// Status is a job's terminal compilation state.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Attempt records one external compilation invocation. Attempts are
// append-only on a job in chronological order: the primary first, then
// fallback passes in sequence.
type Attempt struct {
	Strategy Strategy
	Pass     int // 1-based pass number within the strategy
	ExitCode int
	Stdout   string
	Stderr   string
	// LogExcerpt is the bounded tail of the build log, populated only on
	// the final failing attempt (the log is read once, after the last
	// strategy has given up).
	LogExcerpt string
	Duration   time.Duration
}

// Job is a single compilation job, owned exclusively by the request that
// created it. The workspace is removed only after success; a failed job's
// directory is retained for postmortem inspection until reaped.
type Job struct {
	Name       string
	Token      string
	Dir        string
	Attempts   []Attempt
	Status     Status
	PDFPath    string
	Pages      int // page count of the produced artifact, 0 if unknown
	Repaired   bool
	CreatedAt  time.Time
	FinishedAt time.Time
}

// LastAttempt returns the most recent attempt, or nil if none ran.
func (j *Job) LastAttempt() *Attempt {
	if len(j.Attempts) == 0 {
		return nil
	}
	return &j.Attempts[len(j.Attempts)-1]
}

// Duration is the wall time from job creation to its terminal state.
func (j *Job) Duration() time.Duration {
	return j.FinishedAt.Sub(j.CreatedAt)
}
