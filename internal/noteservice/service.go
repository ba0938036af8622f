// Package noteservice coordinates the resolver, the markup codec and the
// search index for one library.
package noteservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/qvlib/internal/apperr"
	"github.com/starford/qvlib/internal/checksum"
	"github.com/starford/qvlib/internal/index"
	"github.com/starford/qvlib/internal/library"
	"github.com/starford/qvlib/internal/markup"
	"github.com/starford/qvlib/internal/models"
	"github.com/starford/qvlib/internal/render"
)

// NotebookItem is a notebook in a list response.
type NotebookItem struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// NoteItem is a note in a list or detail response.
type NoteItem struct {
	UUID         string    `json:"uuid"`
	NotebookUUID string    `json:"notebook_uuid"`
	Title        string    `json:"title"`
	Tags         []string  `json:"tags"`
	Path         string    `json:"path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MarkupDetail is a note's content rendered as a markup document.
type MarkupDetail struct {
	UUID     string `json:"uuid"`
	Text     string `json:"text"`
	Checksum string `json:"checksum"`
}

// Service coordinates library and index operations.
type Service struct {
	res         *library.Resolver
	libraryPath string
	db          index.NoteIndex
	renderer    *render.Renderer
	logger      *slog.Logger
}

// NewService creates a new note service. db may be nil, in which case
// Search returns ErrSearchDisabled and writes skip re-indexing.
func NewService(res *library.Resolver, libraryPath string, db index.NoteIndex, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		res:         res,
		libraryPath: libraryPath,
		db:          db,
		renderer:    render.New(),
		logger:      logger,
	}
}

// LibraryPath returns the library this service reads.
func (s *Service) LibraryPath() string {
	return s.libraryPath
}

// Notebooks lists every notebook in the library.
func (s *Service) Notebooks(ctx context.Context) ([]NotebookItem, error) {
	notebooks, err := s.res.ListNotebooks(ctx, s.libraryPath)
	if err != nil {
		return nil, err
	}
	items := make([]NotebookItem, len(notebooks))
	for i, nb := range notebooks {
		items[i] = NotebookItem{UUID: nb.UUID, Name: nb.Name, Path: nb.Path}
	}
	return items, nil
}

// Notes lists the notes of the notebook with the given uuid.
func (s *Service) Notes(ctx context.Context, notebookUUID string) ([]NoteItem, error) {
	notebooks, err := s.res.ListNotebooks(ctx, s.libraryPath)
	if err != nil {
		return nil, err
	}
	var nb *models.Notebook
	for i := range notebooks {
		if notebooks[i].UUID == notebookUUID {
			nb = &notebooks[i]
		}
	}
	if nb == nil {
		return nil, apperr.ErrNotFound
	}
	notes, err := s.res.ListNotes(ctx, *nb)
	if err != nil {
		return nil, err
	}
	items := make([]NoteItem, len(notes))
	for i, n := range notes {
		items[i] = toItem(n)
	}
	return items, nil
}

// Note returns the metadata of the note with the given uuid.
func (s *Service) Note(ctx context.Context, uuid string) (*NoteItem, error) {
	n, err := s.find(ctx, uuid)
	if err != nil {
		return nil, err
	}
	item := toItem(*n)
	return &item, nil
}

// Content loads the structured content of a note.
func (s *Service) Content(ctx context.Context, uuid string) (*models.Content, error) {
	n, err := s.find(ctx, uuid)
	if err != nil {
		return nil, err
	}
	c, err := s.res.LoadContent(ctx, *n)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Markup exports a note as a markup document with front matter.
func (s *Service) Markup(ctx context.Context, uuid string) (*MarkupDetail, error) {
	n, err := s.find(ctx, uuid)
	if err != nil {
		return nil, err
	}
	c, err := s.res.LoadContent(ctx, *n)
	if err != nil {
		return nil, err
	}
	text, err := markup.Export(*n, c)
	if err != nil {
		return nil, err
	}
	return &MarkupDetail{UUID: n.UUID, Text: text, Checksum: checksum.SumString(text)}, nil
}

// HTML renders a note's content.
func (s *Service) HTML(ctx context.Context, uuid string) ([]byte, error) {
	c, err := s.Content(ctx, uuid)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(*c)
}

// SaveMarkup parses text and replaces the note's cells. A title in the front
// matter replaces the content title; otherwise the existing title is kept.
func (s *Service) SaveMarkup(ctx context.Context, uuid, text string) (*MarkupDetail, error) {
	n, err := s.find(ctx, uuid)
	if err != nil {
		return nil, err
	}
	doc, err := markup.Import(text)
	if err != nil {
		return nil, err
	}
	current, err := s.res.LoadContent(ctx, *n)
	if err != nil {
		return nil, err
	}
	updated := models.Content{Title: current.Title, Cells: doc.Cells}
	if doc.Header.Title != "" {
		updated.Title = doc.Header.Title
	}
	if err := s.res.SaveContent(ctx, *n, updated); err != nil {
		return nil, err
	}
	s.reindex(*n, updated)

	out, err := markup.Export(*n, updated)
	if err != nil {
		return nil, err
	}
	return &MarkupDetail{UUID: n.UUID, Text: out, Checksum: checksum.SumString(out)}, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return nil, ErrSearchDisabled
	}
	return s.db.Search(query, limit)
}

// Reindex runs a full index sync over the library.
func (s *Service) Reindex(ctx context.Context) (index.Stats, error) {
	if s.db == nil {
		return index.Stats{}, ErrSearchDisabled
	}
	return index.Sync(ctx, s.db, s.res, s.libraryPath, s.logger)
}

// reindex refreshes the note's index row unless its checksum is unchanged.
func (s *Service) reindex(n models.Note, c models.Content) {
	if s.db == nil {
		return
	}
	if err := s.upsertIfChanged(n, c); err != nil {
		s.logger.Warn("reindex failed", slog.String("uuid", n.UUID), slog.String("error", err.Error()))
	}
}

func (s *Service) upsertIfChanged(n models.Note, c models.Content) error {
	row, body, err := index.BuildRow(n, c)
	if err != nil {
		return err
	}
	current, err := s.db.GetChecksum(n.UUID)
	if err != nil {
		return err
	}
	if current == row.Checksum {
		return nil
	}
	return s.db.UpsertNote(row, body)
}

func (s *Service) find(ctx context.Context, uuid string) (*models.Note, error) {
	n, err := s.res.FindNote(ctx, s.libraryPath, uuid)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.ErrNotFound
	}
	return n, nil
}

func toItem(n models.Note) NoteItem {
	return NoteItem{
		UUID:         n.UUID,
		NotebookUUID: n.NotebookUUID(),
		Title:        n.Title,
		Tags:         nonNilSlice(n.Tags),
		Path:         n.Path,
		CreatedAt:    n.Created(),
		UpdatedAt:    n.Updated(),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
