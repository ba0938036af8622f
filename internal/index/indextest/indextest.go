// Package indextest provides a throwaway search index for tests.
package indextest

import (
	"path/filepath"
	"testing"

	"github.com/starford/qvlib/internal/index"
)

// TestDB opens a SQLite index in a temp dir that is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
