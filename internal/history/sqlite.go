package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based job history store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL,
		strategy TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		repaired INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_job_id ON jobs(job_id);
	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a finished job record to the store.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repaired := 0
	if rec.Repaired {
		repaired = 1
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO jobs (job_id, name, status, attempts, strategy, exit_code, repaired, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.JobID, rec.Name, rec.Status, rec.Attempts, rec.Strategy, rec.ExitCode, repaired, rec.DurationMS, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert job record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT job_id, name, status, attempts, strategy, exit_code, repaired, duration_ms, created_at FROM jobs ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query job records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var repaired int
		var createdAt int64
		if err := rows.Scan(&rec.JobID, &rec.Name, &rec.Status, &rec.Attempts, &rec.Strategy, &rec.ExitCode, &repaired, &rec.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan job record: %w", err)
		}
		rec.Repaired = repaired != 0
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
