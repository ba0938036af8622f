package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/qvlib/internal/index"
	"github.com/starford/qvlib/internal/library"
	"github.com/starford/qvlib/internal/noteservice"
	"github.com/starford/qvlib/internal/storage"
)

// Workspace is an opened library with its resolver, optional index and service.
type Workspace struct {
	Config   *Config
	Logger   *slog.Logger
	Version  string
	Resolver *library.Resolver
	Service  *noteservice.Service

	db *index.DB
}

// Open resolves options and opens the configured library. The caller must
// Close the workspace.
func Open(opts ...Option) (*Workspace, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = NewLogger(os.Stderr, cfg.App.LogLevel)
	}

	store, err := storage.NewFS(cfg.Library.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	res := library.NewResolver(store, library.WithConcurrency(cfg.Library.Concurrency))

	ws := &Workspace{
		Config:   cfg,
		Logger:   logger,
		Version:  app.version,
		Resolver: res,
	}

	if cfg.SQLite.Enabled() && !app.skipIndex {
		db, err := index.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		ws.db = db
		ws.Service = noteservice.NewService(res, store.Root(), db, logger)
	} else {
		ws.Service = noteservice.NewService(res, store.Root(), nil, logger)
	}

	return ws, nil
}

// Sync brings the search index up to date. It is a no-op without an index.
func (w *Workspace) Sync(ctx context.Context) {
	if w.db == nil {
		return
	}
	stats, err := w.Service.Reindex(ctx)
	if err != nil {
		w.Logger.Warn("index sync failed", slog.String("error", err.Error()))
		return
	}
	w.Logger.Info("index synced",
		slog.Int("indexed", stats.Indexed),
		slog.Int("skipped", stats.Skipped),
		slog.Int("removed", stats.Removed),
		slog.Int("failed", stats.Failed))
}

// Close releases the index.
func (w *Workspace) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}
