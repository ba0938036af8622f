// Package testutil provides shared test helpers for building note libraries.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/qvlib/internal/models"
	"github.com/starford/qvlib/internal/storage"
)

// TestLibrary creates a temporary library directory with a storage.Provider.
func TestLibrary(t *testing.T) (string, storage.Provider) {
	t.Helper()
	libDir := t.TempDir()
	store, err := storage.NewFS(libDir)
	if err != nil {
		t.Fatal(err)
	}
	return libDir, store
}

// NoteFixture describes a note written by AddNote.
type NoteFixture struct {
	UUID      string
	Title     string
	Tags      []string
	CreatedAt int64
	UpdatedAt int64
	Cells     []models.Cell
}

// AddNotebook creates <lib>/<uuid>.qvnotebook with a meta.json and returns its path.
func AddNotebook(t *testing.T, libDir, name, uuid string) string {
	t.Helper()
	dir := filepath.Join(libDir, uuid+".qvnotebook")
	mkdir(t, dir)
	WriteJSON(t, filepath.Join(dir, "meta.json"), map[string]any{"name": name, "uuid": uuid})
	return dir
}

// AddNote creates <notebook>/<uuid>.qvnote with meta.json and content.json
// and returns its path.
func AddNote(t *testing.T, notebookDir string, n NoteFixture) string {
	t.Helper()
	dir := filepath.Join(notebookDir, n.UUID+".qvnote")
	mkdir(t, dir)
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	WriteJSON(t, filepath.Join(dir, "meta.json"), map[string]any{
		"uuid":       n.UUID,
		"title":      n.Title,
		"tags":       tags,
		"created_at": n.CreatedAt,
		"updated_at": n.UpdatedAt,
	})
	cells := n.Cells
	if cells == nil {
		cells = []models.Cell{}
	}
	WriteJSON(t, filepath.Join(dir, "content.json"), models.Content{Title: n.Title, Cells: cells})
	return dir
}

// WriteJSON encodes v to path, failing the test on error.
func WriteJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	WriteFile(t, path, string(data))
}

// WriteFile writes raw text to path, failing the test on error.
func WriteFile(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func mkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
}
