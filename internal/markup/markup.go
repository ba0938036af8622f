// Package markup converts note content between cells and the library's
// plain-text markup.
//
// The markup is a sequence of blocks joined by a single newline. Each block
// is a header line made of Separator and the cell type, followed by the raw
// cell data:
//
//	>>>>>markdown
//	# Heading
//	>>>>>code
//	fmt.Println("hi")
//
// Text before the first header line is a title region and is not part of any
// cell. A data line that itself starts with Separator cannot be represented;
// it opens a new cell when parsed.
package markup

import (
	"strings"

	"github.com/starford/qvlib/internal/models"
)

// Separator opens every header line.
const Separator = ">>>>>"

// Serialize renders cells as markup. Cell data is emitted verbatim.
func Serialize(cells []models.Cell) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Separator)
		b.WriteString(c.Type.String())
		b.WriteByte('\n')
		b.WriteString(c.Data)
	}
	return b.String()
}

// Parse recovers cells from markup. It never fails: unknown type tags
// decode as text, a header without data yields an empty cell, and text
// before the first header is dropped.
func Parse(text string) []models.Cell {
	var (
		cells   []models.Cell
		data    strings.Builder
		inCell  bool
		typ     models.CellType
		started bool // current cell has at least one data line
	)
	flush := func() {
		if inCell {
			cells = append(cells, models.Cell{Type: typ, Data: data.String()})
		}
		data.Reset()
		started = false
	}

	rest := text
	for more := len(rest) > 0; more; {
		var line string
		line, rest, more = strings.Cut(rest, "\n")

		if tag, ok := strings.CutPrefix(line, Separator); ok {
			flush()
			inCell = true
			typ = models.ParseCellType(tag)
			continue
		}
		if !inCell {
			continue
		}
		if started {
			data.WriteByte('\n')
		}
		data.WriteString(line)
		started = true
	}
	flush()
	return cells
}
