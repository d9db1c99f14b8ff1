// Package server is the HTTP boundary: thin glue translating JSON requests
// into compile/convert/validate calls and files or structured errors back.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cvitae/latexsvc/internal/history"
	"github.com/cvitae/latexsvc/internal/latex"
	"github.com/cvitae/latexsvc/internal/raster"
)

// CompileService compiles LaTeX source into a job with a PDF artifact.
type CompileService interface {
	Compile(ctx context.Context, source, name string) (*latex.Job, error)
}

// ConvertService rasterizes an existing PDF artifact.
type ConvertService interface {
	Convert(ctx context.Context, req raster.Request) (string, error)
}

// Options carries per-request defaults and limits.
type Options struct {
	DefaultName string
	DefaultDPI  int
	MaxBody     int64
}

// Server wires handlers to the compile pipeline.
type Server struct {
	compiler  CompileService
	converter ConvertService
	hist      history.Store
	registry  *prometheus.Registry
	opts      Options
}

// New constructs the HTTP server wiring. A nil history store disables the
// jobs endpoint's backing storage; a nil registry disables /metrics.
func New(compiler CompileService, converter ConvertService, hist history.Store, registry *prometheus.Registry, opts Options) *Server {
	if hist == nil {
		hist = history.NopStore{}
	}
	if opts.DefaultName == "" {
		opts.DefaultName = "resume"
	}
	if opts.DefaultDPI == 0 {
		opts.DefaultDPI = 300
	}
	if opts.MaxBody == 0 {
		opts.MaxBody = 16 << 20
	}
	return &Server{
		compiler:  compiler,
		converter: converter,
		hist:      hist,
		registry:  registry,
		opts:      opts,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/compile/pdf", s.handleCompilePDF)
	r.Post("/compile/image", s.handleCompileImage)
	r.Post("/validate", s.handleValidate)
	r.Get("/templates/jakes", s.handleJakesTemplate)
	r.Get("/jobs/recent", s.handleRecentJobs)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// HTTPServer wraps the router in an http.Server with sane timeouts. Write
// timeout stays generous: a compile blocks the handler until the external
// toolchain finishes.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Minute,
	}
}
