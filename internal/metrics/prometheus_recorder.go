package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	compileDuration prom.Histogram
	attempts        *prom.CounterVec
	compileOutcome  *prom.CounterVec
	conversions     *prom.CounterVec
	activeJobs      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.compileDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "latexsvc",
			Name:      "compile_duration_seconds",
			Help:      "Total duration of compilation jobs including all attempts",
			Buckets:   prom.DefBuckets,
		})
		pr.attempts = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "latexsvc",
			Name:      "compile_attempts_total",
			Help:      "Compilation attempts by strategy and result",
		}, []string{"strategy", "result"})
		pr.compileOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "latexsvc",
			Name:      "compile_outcomes_total",
			Help:      "Compilation jobs by terminal status",
		}, []string{"outcome"})
		pr.conversions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "latexsvc",
			Name:      "conversions_total",
			Help:      "Raster conversions by format and result",
		}, []string{"format", "result"})
		pr.activeJobs = prom.NewGauge(prom.GaugeOpts{
			Namespace: "latexsvc",
			Name:      "active_jobs",
			Help:      "Jobs currently inside the compile or convert pipeline",
		})
		reg.MustRegister(pr.compileDuration, pr.attempts, pr.compileOutcome, pr.conversions, pr.activeJobs)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveCompileDuration(d time.Duration) {
	p.compileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncAttempt(strategy string, result ResultLabel) {
	p.attempts.WithLabelValues(strategy, string(result)).Inc()
}

func (p *PrometheusRecorder) IncCompileOutcome(outcome string) {
	p.compileOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncConversion(format string, result ResultLabel) {
	p.conversions.WithLabelValues(format, string(result)).Inc()
}

func (p *PrometheusRecorder) AddActiveJobs(delta int) {
	p.activeJobs.Add(float64(delta))
}
