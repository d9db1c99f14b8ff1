package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cvitae/latexsvc/internal/config"
	"github.com/cvitae/latexsvc/internal/history"
	"github.com/cvitae/latexsvc/internal/latex"
	"github.com/cvitae/latexsvc/internal/metrics"
	"github.com/cvitae/latexsvc/internal/raster"
	"github.com/cvitae/latexsvc/internal/reaper"
	"github.com/cvitae/latexsvc/internal/runner"
	"github.com/cvitae/latexsvc/internal/server"
	"github.com/cvitae/latexsvc/internal/workspace"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Listen string `short:"l" help:"Listen address (overrides config)"`
	} `cmd:"" default:"1" help:"Start the LaTeX compilation service"`

	Check struct{} `cmd:"" help:"Verify the external toolchain is invocable and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "serve":
		if CLI.Serve.Listen != "" {
			cfg.Listen = CLI.Serve.Listen
		}
		if err := runServe(cfg); err != nil {
			slog.Error("Service failed", "error", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(cfg); err != nil {
			slog.Error("Dependency check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("All system dependencies are available")
	}
}

func runCheck(cfg *config.Config) error {
	run := runner.NewExecRunner()
	tools := runner.RequiredTools(cfg.Tools.Latexmk, cfg.Tools.Pdflatex, cfg.Tools.Convert)
	return runner.VerifyTools(context.Background(), run, tools)
}

func runServe(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := runner.NewExecRunner()

	// Fail fast at startup rather than per-request if the toolchain is broken.
	tools := runner.RequiredTools(cfg.Tools.Latexmk, cfg.Tools.Pdflatex, cfg.Tools.Convert)
	if err := runner.VerifyTools(ctx, run, tools); err != nil {
		return err
	}

	wsManager := workspace.NewManager(cfg.Workspace.Root)
	if err := wsManager.EnsureRoot(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	var hist history.Store = history.NopStore{}
	if cfg.History.Enabled() {
		sqlStore, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer func() {
			if err := sqlStore.Close(); err != nil {
				slog.Warn("Failed to close history store", "error", err)
			}
		}()
		hist = sqlStore
	}

	compiler := latex.NewCompiler(wsManager, run, recorder, latex.Options{
		LatexmkBin:     cfg.Tools.Latexmk,
		PdflatexBin:    cfg.Tools.Pdflatex,
		AttemptTimeout: cfg.Timeouts.CompileTimeout(),
	})
	converter := raster.NewConverter(run, recorder, cfg.Tools.Convert, cfg.Timeouts.ConvertTimeout())

	if cfg.Workspace.ReapIntervalDuration() > 0 && cfg.Workspace.RetainFailedDuration() > 0 {
		rp, err := reaper.New(wsManager, cfg.Workspace.ReapIntervalDuration(), cfg.Workspace.RetainFailedDuration())
		if err != nil {
			return err
		}
		rp.Start()
		defer func() {
			if err := rp.Stop(); err != nil {
				slog.Warn("Failed to stop workspace reaper", "error", err)
			}
		}()
	}

	srv := server.New(compiler, converter, hist, registry, server.Options{
		DefaultName: cfg.Defaults.Name,
		DefaultDPI:  cfg.Defaults.DPI,
		MaxBody:     cfg.MaxBody,
	})
	httpServer := srv.HTTPServer(cfg.Listen)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting LaTeX compilation service", "listen", cfg.Listen, "workspace_root", wsManager.Root())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping service...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := httpServer.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("failed to stop http server: %w", err)
	}

	slog.Info("Service stopped successfully")
	return nil
}
