package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, status := range []string{"succeeded", "failed", "succeeded"} {
		require.NoError(t, store.Append(ctx, Record{
			JobID:      "token-" + status,
			Name:       "resume",
			Status:     status,
			Attempts:   i + 1,
			Strategy:   "latexmk",
			ExitCode:   0,
			Repaired:   i == 1,
			DurationMS: int64(100 * (i + 1)),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, "succeeded", records[0].Status)
	assert.Equal(t, 3, records[0].Attempts)
	assert.Equal(t, base.Add(2*time.Minute), records[0].CreatedAt)
	assert.Equal(t, "failed", records[1].Status)
	assert.True(t, records[1].Repaired)
}

func TestSQLiteStore_RecentLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, Record{
			JobID: "t", Name: "cv", Status: "succeeded", Strategy: "latexmk",
			CreatedAt: time.Now().UTC(),
		}))
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSQLiteStore_RecentEmpty(t *testing.T) {
	store := newTestStore(t)
	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	require.NoError(t, s.Append(context.Background(), Record{}))
	records, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, records)
	require.NoError(t, s.Close())
}
