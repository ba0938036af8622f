// Package models defines the domain types of a note library.
package models

import "time"

// Notebook is a directory of notes inside a library.
// Identity is the directory path.
type Notebook struct {
	Path string `json:"path"`
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// Note is a directory holding one content file plus metadata.
// Many notes share the same *Notebook.
type Note struct {
	Notebook  *Notebook `json:"-"`
	UUID      string    `json:"uuid"`
	Title     string    `json:"title"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
	Tags      []string  `json:"tags"`
	Path      string    `json:"path"`
}

// Created returns CreatedAt as a time.
func (n Note) Created() time.Time { return time.Unix(n.CreatedAt, 0).UTC() }

// Updated returns UpdatedAt as a time.
func (n Note) Updated() time.Time { return time.Unix(n.UpdatedAt, 0).UTC() }

// NotebookUUID returns the owning notebook's uuid, or "" when detached.
func (n Note) NotebookUUID() string {
	if n.Notebook == nil {
		return ""
	}
	return n.Notebook.UUID
}
