package markup

import (
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/starford/qvlib/internal/models"
)

// Header is the YAML front matter written into the title region.
type Header struct {
	Title     string   `yaml:"title"`
	UUID      string   `yaml:"uuid,omitempty"`
	Notebook  string   `yaml:"notebook,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
	CreatedAt int64    `yaml:"created_at,omitempty"`
	UpdatedAt int64    `yaml:"updated_at,omitempty"`
}

// Document is a parsed markup file: optional front matter plus cells.
type Document struct {
	Header Header
	Cells  []models.Cell
}

// Export renders a note's content as a markup document with front matter.
// Parse(Export(n, c)) yields c.Cells because the front matter sits in the
// title region.
func Export(note models.Note, content models.Content) (string, error) {
	title := content.Title
	if title == "" {
		title = note.Title
	}
	h := Header{
		Title:     title,
		UUID:      note.UUID,
		Tags:      note.Tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
	if note.Notebook != nil {
		h.Notebook = note.Notebook.Name
	}
	fm, err := yaml.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("markup: encode front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n")
	b.WriteString(Serialize(content.Cells))
	return b.String(), nil
}

// Import parses a markup document. Front matter is optional; when present it
// must be valid YAML. Cells are parsed from the whole text since the front
// matter lies in the title region that Parse skips.
func Import(text string) (Document, error) {
	var h Header
	if _, err := frontmatter.Parse(strings.NewReader(text), &h); err != nil {
		return Document{}, fmt.Errorf("markup: parse front matter: %w", err)
	}
	return Document{Header: h, Cells: Parse(text)}, nil
}
