// Package testutil provides shared test helpers for setting up vaults and journals.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/history"
	"github.com/starford/ansuz/internal/storage"
)

// TestJournal creates a temporary SQLite history journal that is
// automatically cleaned up.
func TestJournal(t *testing.T) *history.Journal {
	t.Helper()
	j, err := history.Open(filepath.Join(t.TempDir(), "ansuz-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}
