// Package history persists job metadata (never artifacts) so operators can
// inspect recent compilations after the fact.
package history

import (
	"context"
	"time"
)

// Record is one terminal compilation job.
type Record struct {
	JobID      string    `json:"job_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Attempts   int       `json:"attempts"`
	Strategy   string    `json:"strategy"` // strategy of the final attempt
	ExitCode   int       `json:"exit_code"`
	Repaired   bool      `json:"repaired"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store defines the interface for persisting and querying job records.
type Store interface {
	// Append adds a finished job to the store.
	Append(ctx context.Context, rec Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close closes the store and releases resources.
	Close() error
}

// NopStore discards records; used when history is disabled.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Recent(context.Context, int) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                  { return nil }
