package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/qvlib/internal/models"
	"github.com/starford/qvlib/internal/testutil"
)

func testWorkspace(t *testing.T, mutate func(*Config)) *Workspace {
	t.Helper()
	lib, _ := testutil.TestLibrary(t)
	nb := testutil.AddNotebook(t, lib, "Inbox", "NB1")
	testutil.AddNote(t, nb, testutil.NoteFixture{
		UUID:  "N1",
		Title: "Hello",
		Cells: []models.Cell{{Type: models.CellMarkdown, Data: "searchable words"}},
	})

	cfg := NewDefaultConfig()
	cfg.Library.Path = lib
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "index.db")
	if mutate != nil {
		mutate(cfg)
	}

	ws, err := Open(WithConfig(cfg), WithLogger(NewLogger(io.Discard, cfg.App.LogLevel)))
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestOpen_RequiresConfig(t *testing.T) {
	_, err := Open()
	assert.Error(t, err)
}

func TestOpen_MissingLibrary(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Library.Path = filepath.Join(t.TempDir(), "missing")
	_, err := Open(WithConfig(cfg), WithLogger(NewLogger(io.Discard, cfg.App.LogLevel)))
	assert.Error(t, err)
}

func TestWorkspace_SyncEnablesSearch(t *testing.T) {
	ws := testWorkspace(t, nil)
	ws.Sync(context.Background())

	results, err := ws.Service.Search(context.Background(), "searchable", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "N1", results[0].UUID)
}

func TestWorkspace_WithoutIndex(t *testing.T) {
	ws := testWorkspace(t, func(c *Config) { c.SQLite.Path = "" })
	ws.Sync(context.Background())
	_, err := ws.Service.Search(context.Background(), "x", 1)
	assert.Error(t, err, "search should be disabled without an index")
}

func TestHTTPHandler(t *testing.T) {
	ws := testWorkspace(t, func(c *Config) {
		c.Auth.Mode = AuthModeToken
		c.Auth.Token = "secret"
	})
	h := newHTTPHandler(ws)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String(), path)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notebooks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/notes/N1", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Hello"`)
}
