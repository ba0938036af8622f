package api

import (
	"github.com/starford/qvlib/internal/index"
	"github.com/starford/qvlib/internal/noteservice"
)

// NotebookItem is a notebook in a list response (aliased from the domain layer).
type NotebookItem = noteservice.NotebookItem

// NoteItem is a note in a list or detail response (aliased from the domain layer).
type NoteItem = noteservice.NoteItem

// NotebookListResponse wraps notebook listings.
type NotebookListResponse struct {
	Notebooks []NotebookItem `json:"notebooks" validate:"required"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteItem `json:"notes" validate:"required"`
}

// ContentResponse is the structured content of a note.
type ContentResponse struct {
	UUID  string     `json:"uuid" example:"0F1E2D3C-4B5A-6978-8796-A5B4C3D2E1F0" validate:"required"`
	Title string     `json:"title" example:"Weekly notes"`
	Cells []CellItem `json:"cells" validate:"required"`
}

// CellItem is one cell in a content response.
type CellItem struct {
	Type string `json:"type" example:"markdown" validate:"required"`
	Data string `json:"data" example:"# Heading"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}
