package index

import (
	"context"
	"log/slog"

	"github.com/starford/qvlib/internal/checksum"
	"github.com/starford/qvlib/internal/library"
	"github.com/starford/qvlib/internal/markup"
	"github.com/starford/qvlib/internal/models"
)

// Stats summarises one Sync pass.
type Stats struct {
	Indexed int
	Skipped int
	Removed int
	Failed  int
}

// Sync walks the library and brings the index up to date:
//   - new/changed notes are loaded and upserted
//   - notes removed from disk are deleted from the index
//
// Per-note failures are logged and counted. Stale rows are only removed
// when every notebook listed cleanly, so a transient read error never
// drops rows.
func Sync(ctx context.Context, db NoteIndex, res *library.Resolver, libraryPath string, logger *slog.Logger) (Stats, error) {
	var stats Stats

	notebooks, err := res.ListNotebooks(ctx, libraryPath)
	if err != nil {
		return stats, err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}

	complete := true
	disk := make(map[string]struct{})
	for _, nb := range notebooks {
		notes, err := res.ListNotes(ctx, nb)
		if err != nil {
			complete = false
			stats.Failed++
			logger.Warn("sync: list notes failed", slog.String("notebook", nb.Path), slog.String("error", err.Error()))
			continue
		}
		for _, n := range notes {
			disk[n.UUID] = struct{}{}

			content, err := res.LoadContent(ctx, n)
			if err != nil {
				stats.Failed++
				logger.Warn("sync: load failed", slog.String("path", n.Path), slog.String("error", err.Error()))
				continue
			}
			row, body, err := BuildRow(n, content)
			if err != nil {
				stats.Failed++
				logger.Warn("sync: export failed", slog.String("path", n.Path), slog.String("error", err.Error()))
				continue
			}
			if checksums[n.UUID] == row.Checksum {
				stats.Skipped++
				continue
			}
			if err := db.UpsertNote(row, body); err != nil {
				stats.Failed++
				logger.Warn("sync: index failed", slog.String("path", n.Path), slog.String("error", err.Error()))
				continue
			}
			stats.Indexed++
			logger.Debug("sync: indexed", slog.String("path", n.Path))
		}
	}

	if !complete {
		logger.Warn("sync: skipping stale removal after listing failures")
		return stats, nil
	}

	for id := range checksums {
		if _, ok := disk[id]; ok {
			continue
		}
		if err := db.DeleteNote(id); err != nil {
			logger.Warn("sync: delete failed", slog.String("uuid", id), slog.String("error", err.Error()))
			continue
		}
		stats.Removed++
		logger.Debug("sync: removed stale", slog.String("uuid", id))
	}

	return stats, nil
}

// BuildRow converts a note and its content into an index row and the body
// to search. The checksum covers the exported document, so metadata edits
// are picked up as well as cell edits.
func BuildRow(n models.Note, c models.Content) (NoteRow, string, error) {
	doc, err := markup.Export(n, c)
	if err != nil {
		return NoteRow{}, "", err
	}
	row := NoteRow{
		UUID:         n.UUID,
		NotebookUUID: n.NotebookUUID(),
		Path:         n.Path,
		Title:        n.Title,
		Checksum:     checksum.SumString(doc),
		Tags:         n.Tags,
		UpdatedAt:    n.Updated(),
	}
	if n.Notebook != nil {
		row.Notebook = n.Notebook.Name
	}
	return row, markup.Serialize(c.Cells), nil
}
