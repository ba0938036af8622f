// Package render turns note content into HTML.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/starford/qvlib/internal/models"
)

// Renderer converts content cells to an HTML fragment. It is stateless and
// safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GFM, linkify and task list extensions.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render writes every cell in order, each wrapped in a div tagged with its type.
// Text cells hold HTML already and are emitted unchanged.
func (r *Renderer) Render(content models.Content) ([]byte, error) {
	var buf bytes.Buffer
	if content.Title != "" {
		fmt.Fprintf(&buf, "<h1 class=\"note-title\">%s</h1>\n", html.EscapeString(content.Title))
	}
	for i, c := range content.Cells {
		typ := c.Type.String()
		fmt.Fprintf(&buf, "<div class=\"cell cell-%s\">\n", typ)
		switch c.Type {
		case models.CellMarkdown:
			if err := r.md.Convert([]byte(c.Data), &buf); err != nil {
				return nil, fmt.Errorf("render: cell %d: %w", i, err)
			}
		case models.CellCode:
			fmt.Fprintf(&buf, "<pre><code>%s</code></pre>\n", html.EscapeString(c.Data))
		case models.CellLatex, models.CellDiagram:
			fmt.Fprintf(&buf, "<pre class=\"%s\">%s</pre>\n", typ, html.EscapeString(c.Data))
		default:
			buf.WriteString(c.Data)
			buf.WriteByte('\n')
		}
		buf.WriteString("</div>\n")
	}
	return buf.Bytes(), nil
}
