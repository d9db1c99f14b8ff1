// Package reaper periodically reclaims stale workspaces. Failed jobs keep
// their directories for postmortem inspection; this is the external reaping
// that eventually removes them.
package reaper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/cvitae/latexsvc/internal/workspace"
)

// Reaper schedules a recurring stale-workspace sweep.
type Reaper struct {
	scheduler  gocron.Scheduler
	workspaces *workspace.Manager
	maxAge     time.Duration
}

// New creates a reaper sweeping every interval, removing workspaces older
// than maxAge.
func New(ws *workspace.Manager, interval, maxAge time.Duration) (*Reaper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	r := &Reaper{scheduler: s, workspaces: ws, maxAge: maxAge}
	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.sweep),
		gocron.WithName("workspace-reaper"),
	); err != nil {
		return nil, fmt.Errorf("failed to create reaper job: %w", err)
	}
	return r, nil
}

// Start begins the periodic sweep.
func (r *Reaper) Start() {
	slog.Info("Starting workspace reaper", slog.Duration("max_age", r.maxAge))
	r.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (r *Reaper) Stop() error {
	slog.Info("Stopping workspace reaper")
	return r.scheduler.Shutdown()
}

func (r *Reaper) sweep() {
	removed, err := r.workspaces.SweepStale(r.maxAge)
	if err != nil {
		slog.Warn("Workspace sweep failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		slog.Info("Workspace sweep completed", slog.Int("removed", removed))
	}
}
