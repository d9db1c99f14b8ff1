package reaper

import (
	"testing"
	"time"

	"github.com/cvitae/latexsvc/internal/workspace"
	"github.com/stretchr/testify/require"
)

func TestNewStartStop(t *testing.T) {
	ws := workspace.NewManager(t.TempDir())
	r, err := New(ws, time.Hour, 24*time.Hour)
	require.NoError(t, err)

	r.Start()
	require.NoError(t, r.Stop())
}
