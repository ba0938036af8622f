//go:build sqlite_fts5

package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM notes_fts`).Scan(&count), "notes_fts table missing")
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		UUID:      "fts",
		Title:     "FTS Note",
		Checksum:  "f1",
		Tags:      []string{"search"},
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.UpsertNote(row, ">>>>>markdown\nCells support powerful full-text search."))

	results, err := db.Search("powerful", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fts", results[0].UUID)
	assert.Contains(t, results[0].Snippet, "<b>powerful</b>")
}
