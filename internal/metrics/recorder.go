package metrics

import "time"

// ResultLabel enumerates attempt result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for compile and conversion metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. The
// NoopRecorder allows optional injection.
type Recorder interface {
	ObserveCompileDuration(d time.Duration)
	IncAttempt(strategy string, result ResultLabel)
	IncCompileOutcome(outcome string) // outcome: succeeded|failed
	IncConversion(format string, result ResultLabel)
	AddActiveJobs(delta int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCompileDuration(time.Duration)  {}
func (NoopRecorder) IncAttempt(string, ResultLabel)        {}
func (NoopRecorder) IncCompileOutcome(string)              {}
func (NoopRecorder) IncConversion(string, ResultLabel)     {}
func (NoopRecorder) AddActiveJobs(int)                     {}
