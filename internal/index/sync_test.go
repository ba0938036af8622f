package index_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/qvlib/internal/index"
	"github.com/starford/qvlib/internal/index/indextest"
	"github.com/starford/qvlib/internal/library"
	"github.com/starford/qvlib/internal/models"
	"github.com/starford/qvlib/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	lib, store := testutil.TestLibrary(t)
	db := indextest.TestDB(t)
	res := library.NewResolver(store)
	ctx := context.Background()

	nb := testutil.AddNotebook(t, lib, "Inbox", "NB")
	testutil.AddNote(t, nb, testutil.NoteFixture{UUID: "N1", Title: "Alpha", Cells: []models.Cell{{Type: models.CellMarkdown, Data: "zebra crossing"}}})
	n2 := testutil.AddNote(t, nb, testutil.NoteFixture{UUID: "N2", Title: "Beta"})

	stats, err := index.Sync(ctx, db, res, lib, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Indexed)

	results, err := db.Search("zebra", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "N1", results[0].UUID)
	assert.Equal(t, "Inbox", results[0].Notebook)

	// Unchanged notes are skipped on the second pass.
	stats, err = index.Sync(ctx, db, res, lib, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, index.Stats{Skipped: 2}, stats)

	require.NoError(t, os.RemoveAll(n2))
	stats, err = index.Sync(ctx, db, res, lib, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Removed)

	cs, err := db.GetChecksum("N2")
	require.NoError(t, err)
	assert.Empty(t, cs, "stale note should be gone from the index")
}

func TestSync_KeepsRowsWhenListingFails(t *testing.T) {
	lib, store := testutil.TestLibrary(t)
	db := indextest.TestDB(t)
	res := library.NewResolver(store)
	ctx := context.Background()

	nb := testutil.AddNotebook(t, lib, "Inbox", "NB")
	testutil.AddNote(t, nb, testutil.NoteFixture{UUID: "N1", Title: "Alpha"})
	_, err := index.Sync(ctx, db, res, lib, quietLogger())
	require.NoError(t, err)

	// A broken sibling makes the whole notebook fail to list.
	broken := testutil.AddNote(t, nb, testutil.NoteFixture{UUID: "N9"})
	testutil.WriteFile(t, filepath.Join(broken, library.MetaFile), "{")

	stats, err := index.Sync(ctx, db, res, lib, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Removed)

	cs, err := db.GetChecksum("N1")
	require.NoError(t, err)
	assert.NotEmpty(t, cs, "row should survive a listing failure")
}

func TestSync_MissingLibrary(t *testing.T) {
	lib, store := testutil.TestLibrary(t)
	_, err := index.Sync(context.Background(), indextest.TestDB(t), library.NewResolver(store), filepath.Join(lib, "gone"), quietLogger())
	assert.Error(t, err)
}
