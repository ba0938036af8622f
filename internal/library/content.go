package library

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/starford/qvlib/internal/apperr"
	"github.com/starford/qvlib/internal/models"
)

// ContentPath returns the content file of a note.
func ContentPath(note models.Note) string {
	return filepath.Join(note.Path, ContentFile)
}

// LoadContent reads and decodes the note's content file.
func (r *Resolver) LoadContent(_ context.Context, note models.Note) (models.Content, error) {
	path := ContentPath(note)
	data, err := r.store.Read(path)
	if err != nil {
		return models.Content{}, err
	}
	var c models.Content
	if err := decodeJSON(data, &c); err != nil {
		return models.Content{}, apperr.Decode("library: decode", path, err)
	}
	c.ContentPath = path
	return c, nil
}

// SaveContent encodes content and atomically replaces the note's content
// file. The note directory must exist.
func (r *Resolver) SaveContent(_ context.Context, note models.Note, content models.Content) error {
	if content.Cells == nil {
		content.Cells = []models.Cell{}
	}
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("library: encode content: %w", err)
	}
	return r.store.Write(ContentPath(note), append(data, '\n'))
}
