package testsupport

import (
	"path/filepath"
	"testing"

	"rsvpd/internal/jobs"
)

// OpenSQLiteStore opens a throwaway on-disk job store that closes with the
// test.
func OpenSQLiteStore(t testing.TB) *jobs.SQLiteStore {
	t.Helper()

	store, err := jobs.NewSQLiteStore(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close sqlite store: %v", err)
		}
	})
	return store
}

// NewManager returns a manager over a fresh in-memory store.
func NewManager(t testing.TB) *jobs.Manager {
	t.Helper()
	return jobs.NewManager(jobs.NewMemoryStore())
}
