package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/qvlib/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/notebooks", h.ListNotebooks)
	r.Get("/notebooks/{uuid}/notes", h.ListNotes)

	r.Get("/notes/{uuid}", h.GetNote)
	r.Get("/notes/{uuid}/content", h.GetContent)
	r.Get("/notes/{uuid}/markup", h.GetMarkup)
	r.Put("/notes/{uuid}/markup", h.PutMarkup)
	r.Get("/notes/{uuid}/html", h.GetHTML)

	r.Get("/search", h.Search)

	return r
}
