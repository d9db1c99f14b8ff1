// Package workspace manages isolated per-job directories under a fixed
// temp root. Every compilation and conversion command runs with the job's
// directory as working and output directory, so all intermediate artifacts
// stay contained and inspectable.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cvitae/latexsvc/internal/logfields"
)

// Manager allocates and reaps per-job workspace directories.
type Manager struct {
	root string
}

// NewManager creates a workspace manager rooted at root. An empty root
// falls back to a well-known location under the system temp directory.
func NewManager(root string) *Manager {
	if root == "" {
		root = filepath.Join(os.TempDir(), "latexsvc")
	}
	return &Manager{root: root}
}

// Root returns the workspace root directory.
func (m *Manager) Root() string { return m.root }

// EnsureRoot creates the workspace root if it does not exist.
func (m *Manager) EnsureRoot() error {
	if err := os.MkdirAll(m.root, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace root: %w", err)
	}
	return nil
}

// Workspace is one job's isolated directory.
type Workspace struct {
	Name  string // sanitized job name, used for artifact file names
	Token string // collision-resistant per-job token
	Dir   string
}

// Allocate creates a directory unique across concurrently running jobs.
// Uniqueness comes from a per-job random token rather than the process id,
// since many jobs run inside one long-lived service process.
func (m *Manager) Allocate(jobName string) (*Workspace, error) {
	if err := m.EnsureRoot(); err != nil {
		return nil, err
	}

	name := SanitizeName(jobName)
	token := uuid.New().String()
	dir := filepath.Join(m.root, fmt.Sprintf("%s-%s", name, token))
	if err := os.Mkdir(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	slog.Debug("Created workspace", logfields.Job(name), logfields.Token(token), logfields.Path(dir))
	return &Workspace{Name: name, Token: token, Dir: dir}, nil
}

// WriteSource materializes the (possibly auto-repaired) LaTeX source as
// {name}.tex inside the workspace and returns its path.
func (w *Workspace) WriteSource(content string) (string, error) {
	texPath := filepath.Join(w.Dir, w.Name+".tex")
	if err := os.WriteFile(texPath, []byte(content), 0o640); err != nil {
		return "", fmt.Errorf("failed to write LaTeX source: %w", err)
	}
	return texPath, nil
}

// ArtifactPath returns the deterministic path of an artifact with the given
// extension ("pdf", "log", "png", ...) inside the workspace.
func (w *Workspace) ArtifactPath(ext string) string {
	return filepath.Join(w.Dir, w.Name+"."+ext)
}

// Cleanup recursively removes the workspace directory. Removal failure is
// logged but never propagated: a file still held open must not fail the
// request that already succeeded.
func (w *Workspace) Cleanup() {
	if err := os.RemoveAll(w.Dir); err != nil {
		slog.Warn("Failed to cleanup workspace", logfields.Path(w.Dir), logfields.Error(err))
		return
	}
	slog.Debug("Cleaned up workspace", logfields.Path(w.Dir))
}

// SweepStale removes workspace directories whose modification time is older
// than maxAge. Failed-job workspaces are retained for postmortem inspection;
// this is the reaper that eventually reclaims them. Returns the number of
// directories removed.
func (m *Manager) SweepStale(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read workspace root: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(m.root, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Failed to reap stale workspace", logfields.Path(dir), logfields.Error(err))
			continue
		}
		slog.Info("Reaped stale workspace", logfields.Path(dir))
		removed++
	}
	return removed, nil
}

// SanitizeName reduces an arbitrary job name to a filesystem-safe token.
// Anything outside [A-Za-z0-9._-] is dropped; an empty result falls back to
// "resume".
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), ".")
	if s == "" {
		return "resume"
	}
	return s
}
