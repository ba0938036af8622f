package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/qvlib/internal/index/indextest"
	"github.com/starford/qvlib/internal/library"
	"github.com/starford/qvlib/internal/models"
	"github.com/starford/qvlib/internal/noteservice"
	"github.com/starford/qvlib/internal/testutil"
)

// testEnv sets up a temp library, SQLite index, service and router.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) (http.Handler, string) {
	t.Helper()

	lib, store := testutil.TestLibrary(t)
	nb := testutil.AddNotebook(t, lib, "Inbox", "NB1")
	noteDir := testutil.AddNote(t, nb, testutil.NoteFixture{
		UUID:      "N1",
		Title:     "Hello",
		Tags:      []string{"greeting"},
		CreatedAt: 1500000000,
		UpdatedAt: 1500000100,
		Cells: []models.Cell{
			{Type: models.CellMarkdown, Data: "# Hello\n"},
			{Type: models.CellCode, Data: "fmt.Println(1)"},
		},
	})

	svc := noteservice.NewService(library.NewResolver(store), lib, indextest.TestDB(t), nil)
	return NewRouter(svc, authToken != "", authToken), noteDir
}

func do(router http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestListNotebooksAndNotes(t *testing.T) {
	router, _ := testEnv(t, "")

	w := do(router, http.MethodGet, "/notebooks", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	nbs := decode[NotebookListResponse](t, w)
	require.Len(t, nbs.Notebooks, 1)
	assert.Equal(t, "Inbox", nbs.Notebooks[0].Name)

	w = do(router, http.MethodGet, "/notebooks/NB1/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	notes := decode[NoteListResponse](t, w)
	require.Len(t, notes.Notes, 1)
	assert.Equal(t, "N1", notes.Notes[0].UUID)

	w = do(router, http.MethodGet, "/notebooks/nope/notes", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNoteAndContent(t *testing.T) {
	router, _ := testEnv(t, "")

	w := do(router, http.MethodGet, "/notes/N1", "")
	require.Equal(t, http.StatusOK, w.Code)
	note := decode[NoteItem](t, w)
	assert.Equal(t, "Hello", note.Title)
	assert.Equal(t, "NB1", note.NotebookUUID)

	w = do(router, http.MethodGet, "/notes/N1/content", "")
	require.Equal(t, http.StatusOK, w.Code)
	c := decode[ContentResponse](t, w)
	require.Len(t, c.Cells, 2)
	assert.Equal(t, "code", c.Cells[1].Type)

	w = do(router, http.MethodGet, "/notes/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkupETag(t *testing.T) {
	router, _ := testEnv(t, "")

	w := do(router, http.MethodGet, "/notes/N1/markup", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasSuffix(w.Body.String(), ">>>>>markdown\n# Hello\n\n>>>>>code\nfmt.Println(1)"), w.Body.String())
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = do(router, http.MethodGet, "/notes/N1/markup", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestPutMarkup(t *testing.T) {
	router, _ := testEnv(t, "")

	w := do(router, http.MethodPut, "/notes/N1/markup", "---\ntitle: Renamed\n---\n>>>>>latex\nx^2\n>>>>>text\nbye")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	c := decode[ContentResponse](t, do(router, http.MethodGet, "/notes/N1/content", ""))
	assert.Equal(t, "Renamed", c.Title)
	assert.Equal(t, []CellItem{{Type: "latex", Data: "x^2"}, {Type: "text", Data: "bye"}}, c.Cells)

	sr := decode[SearchResponse](t, do(router, http.MethodGet, "/search?q=bye", ""))
	assert.Len(t, sr.Results, 1)
}

func TestPutMarkup_BadFrontMatter(t *testing.T) {
	router, _ := testEnv(t, "")
	w := do(router, http.MethodPut, "/notes/N1/markup", "---\ntitle: [unclosed\n---\n>>>>>text\nx")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutMarkup_TooLarge(t *testing.T) {
	router, _ := testEnv(t, "")
	body := ">>>>>text\n" + strings.Repeat("x", maxMarkupBytes)
	w := do(router, http.MethodPut, "/notes/N1/markup", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	c := decode[ContentResponse](t, do(router, http.MethodGet, "/notes/N1/content", ""))
	assert.Len(t, c.Cells, 2, "oversized body must not be applied")
}

func TestMalformedContentIs422(t *testing.T) {
	router, noteDir := testEnv(t, "")
	testutil.WriteFile(t, filepath.Join(noteDir, library.ContentFile), "{broken")

	w := do(router, http.MethodGet, "/notes/N1/content", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decode[errResponse](t, w)
	assert.True(t, strings.HasSuffix(e.Path, library.ContentFile), "error path = %q", e.Path)
}

func TestGetHTML(t *testing.T) {
	router, _ := testEnv(t, "")
	w := do(router, http.MethodGet, "/notes/N1/html", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<pre><code>fmt.Println(1)</code></pre>")
}

func TestSearchRequiresQuery(t *testing.T) {
	router, _ := testEnv(t, "")
	w := do(router, http.MethodGet, "/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthTokenMode(t *testing.T) {
	router, _ := testEnv(t, "secret")

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/notebooks", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/notebooks", "", "Authorization", "Bearer wrong").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/notebooks", "", "Authorization", "Bearer secret").Code)
}
