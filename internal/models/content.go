package models

import (
	"encoding/json"
	"strings"
)

// CellType is the closed set of cell kinds.
type CellType string

const (
	CellText     CellType = "text"
	CellMarkdown CellType = "markdown"
	CellCode     CellType = "code"
	CellLatex    CellType = "latex"
	CellDiagram  CellType = "diagram"
)

// prefixTypes are matched in order; anything else is text.
var prefixTypes = []CellType{CellCode, CellMarkdown, CellLatex, CellDiagram}

// ParseCellType maps a raw type tag to a CellType by case-insensitive prefix.
// Unknown, empty or garbled tags yield CellText; leading blanks are not skipped.
func ParseCellType(tag string) CellType {
	lower := strings.ToLower(strings.TrimRight(tag, " \t\r"))
	for _, t := range prefixTypes {
		if strings.HasPrefix(lower, string(t)) {
			return t
		}
	}
	return CellText
}

// String returns the tag written to markup and JSON.
func (t CellType) String() string {
	switch t {
	case CellText, CellMarkdown, CellCode, CellLatex, CellDiagram:
		return string(t)
	}
	return string(CellText)
}

// Cell is one unit of content.
type Cell struct {
	Type CellType `json:"type"`
	Data string   `json:"data"`
}

// UnmarshalJSON decodes a cell, defaulting a missing or non-string type to text.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type json.RawMessage `json:"type"`
		Data string          `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var tag string
	if len(raw.Type) > 0 {
		_ = json.Unmarshal(raw.Type, &tag)
	}
	c.Type = ParseCellType(tag)
	c.Data = raw.Data
	return nil
}

// MarshalJSON always writes a valid type tag.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Data string `json:"data"`
	}{Type: c.Type.String(), Data: c.Data})
}

// Content is the structured body of a note.
type Content struct {
	ContentPath string `json:"-"`
	Title       string `json:"title"`
	Cells       []Cell `json:"cells"`
}
