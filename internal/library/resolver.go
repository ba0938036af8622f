// Package library resolves the Library → Notebook → Note hierarchy from
// directory metadata and loads note content.
//
// Nothing is cached: every call re-reads storage. Fan-out reads run
// concurrently and are all-or-nothing; the first failure is returned and
// no partial result is produced.
package library

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"

	"github.com/starford/qvlib/internal/apperr"
	"github.com/starford/qvlib/internal/models"
	"github.com/starford/qvlib/internal/storage"
)

const (
	// MetaFile is the metadata file in every notebook and note directory.
	MetaFile = "meta.json"
	// ContentFile holds a note's cells.
	ContentFile = "content.json"
)

// Resolver builds notebooks and notes from a storage.Provider.
type Resolver struct {
	store storage.Provider
	limit int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithConcurrency bounds the number of concurrent metadata reads in a
// fan-out. Zero or less means unbounded.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		r.limit = n
	}
}

// NewResolver creates a resolver over store.
func NewResolver(store storage.Provider, opts ...Option) *Resolver {
	r := &Resolver{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type notebookMeta struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

func (m *notebookMeta) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.UUID, validation.Required),
	)
}

type noteMeta struct {
	UUID      string   `json:"uuid"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

func (m *noteMeta) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.UUID, validation.Required),
	)
}

// ListNotebooks returns one notebook per immediate subdirectory of
// libraryPath, in listing order.
func (r *Resolver) ListNotebooks(ctx context.Context, libraryPath string) ([]models.Notebook, error) {
	dirs, err := r.store.ListDirs(libraryPath)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notebook, len(dirs))
	err = r.fanOut(ctx, len(dirs), func(ctx context.Context, i int) error {
		nb, err := r.ReadNotebook(ctx, dirs[i])
		if err != nil {
			return err
		}
		out[i] = nb
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadNotebook decodes the metadata of the notebook at notebookPath.
// A missing or malformed meta.json is a decode error; a missing directory
// is not-found.
func (r *Resolver) ReadNotebook(_ context.Context, notebookPath string) (models.Notebook, error) {
	var meta notebookMeta
	if err := r.readMeta(notebookPath, &meta); err != nil {
		return models.Notebook{}, err
	}
	return models.Notebook{
		Path: notebookPath,
		Name: meta.Name,
		UUID: meta.UUID,
	}, nil
}

// FindNotebook returns the last notebook named exactly name, or nil when
// there is none.
func (r *Resolver) FindNotebook(ctx context.Context, libraryPath, name string) (*models.Notebook, error) {
	notebooks, err := r.ListNotebooks(ctx, libraryPath)
	if err != nil {
		return nil, err
	}
	var found *models.Notebook
	for i := range notebooks {
		if notebooks[i].Name == name {
			found = &notebooks[i]
		}
	}
	return found, nil
}

// MatchNotebooks returns the notebooks whose name matches a doublestar
// glob pattern, in listing order.
func (r *Resolver) MatchNotebooks(ctx context.Context, libraryPath, pattern string) ([]models.Notebook, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	notebooks, err := r.ListNotebooks(ctx, libraryPath)
	if err != nil {
		return nil, err
	}
	var out []models.Notebook
	for _, nb := range notebooks {
		if ok, _ := doublestar.Match(pattern, nb.Name); ok {
			out = append(out, nb)
		}
	}
	return out, nil
}

// ListNotes returns one note per immediate subdirectory of the notebook,
// in listing order. All notes share the same *Notebook.
func (r *Resolver) ListNotes(ctx context.Context, notebook models.Notebook) ([]models.Note, error) {
	dirs, err := r.store.ListDirs(notebook.Path)
	if err != nil {
		return nil, err
	}
	owner := &notebook
	out := make([]models.Note, len(dirs))
	err = r.fanOut(ctx, len(dirs), func(ctx context.Context, i int) error {
		n, err := r.readNote(owner, dirs[i])
		if err != nil {
			return err
		}
		out[i] = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadNote decodes the metadata of a single note directory.
func (r *Resolver) ReadNote(_ context.Context, notebook models.Notebook, notePath string) (models.Note, error) {
	return r.readNote(&notebook, notePath)
}

// ListLibrary returns every note of every notebook, grouped by notebook in
// listing order.
func (r *Resolver) ListLibrary(ctx context.Context, libraryPath string) ([]models.Note, error) {
	notebooks, err := r.ListNotebooks(ctx, libraryPath)
	if err != nil {
		return nil, err
	}
	perNotebook := make([][]models.Note, len(notebooks))
	err = r.fanOut(ctx, len(notebooks), func(ctx context.Context, i int) error {
		notes, err := r.ListNotes(ctx, notebooks[i])
		if err != nil {
			return err
		}
		perNotebook[i] = notes
		return nil
	})
	if err != nil {
		return nil, err
	}
	var out []models.Note
	for _, notes := range perNotebook {
		out = append(out, notes...)
	}
	return out, nil
}

// FindNote returns the last note in the library with the given uuid, or nil.
func (r *Resolver) FindNote(ctx context.Context, libraryPath, uuid string) (*models.Note, error) {
	notes, err := r.ListLibrary(ctx, libraryPath)
	if err != nil {
		return nil, err
	}
	var found *models.Note
	for i := range notes {
		if notes[i].UUID == uuid {
			found = &notes[i]
		}
	}
	return found, nil
}

func (r *Resolver) readNote(owner *models.Notebook, notePath string) (models.Note, error) {
	var meta noteMeta
	if err := r.readMeta(notePath, &meta); err != nil {
		return models.Note{}, err
	}
	return models.Note{
		Notebook:  owner,
		UUID:      meta.UUID,
		Title:     meta.Title,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
		Tags:      meta.Tags,
		Path:      notePath,
	}, nil
}

// readMeta decodes dir/meta.json into v and validates it.
func (r *Resolver) readMeta(dir string, v validation.Validatable) error {
	path := filepath.Join(dir, MetaFile)
	data, err := r.store.Read(path)
	if err != nil {
		if apperr.KindOf(err) != apperr.ErrNotFound {
			return err
		}
		// Distinguish a missing directory from a missing metadata file.
		if _, dirErr := r.store.ListDirs(dir); dirErr != nil {
			return dirErr
		}
		return apperr.Decode("library: decode", path, err)
	}
	if err := decodeJSON(data, v); err != nil {
		return apperr.Decode("library: decode", path, err)
	}
	if err := v.Validate(); err != nil {
		return apperr.Decode("library: validate", path, err)
	}
	return nil
}

// decodeJSON rejects anything but exactly one JSON value.
func decodeJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// fanOut runs fn for every index in [0, n) concurrently and waits for all.
// The first error cancels the group and is returned.
func (r *Resolver) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gCtx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return fn(gCtx, i)
		})
	}
	return g.Wait()
}
