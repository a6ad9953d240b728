// Package sqlitetest opens throwaway migrated databases for tests.
package sqlitetest

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/helpme/internal/storage/sqlite"
)

// Open initializes a fresh database under t.TempDir and closes it on cleanup.
func Open(t testing.TB) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "helpme.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
