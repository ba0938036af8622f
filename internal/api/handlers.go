package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/qvlib/internal/apperr"
	"github.com/starford/qvlib/internal/checksum"
	"github.com/starford/qvlib/internal/index"
	"github.com/starford/qvlib/internal/noteservice"
)

// maxMarkupBytes bounds PUT bodies.
const maxMarkupBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotebooks handles GET /api/notebooks.
//
//	@Summary		List notebooks in the library
//	@Tags			notebooks
//	@Produce		json
//	@Success		200	{object}	NotebookListResponse
//	@Failure		422	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks [get]
func (h *Handler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Notebooks(r.Context())
	if err != nil {
		writeError(w, "list notebooks", err)
		return
	}
	writeJSON(w, http.StatusOK, NotebookListResponse{Notebooks: items})
}

// ListNotes handles GET /api/notebooks/{uuid}/notes.
//
//	@Summary		List notes of a notebook
//	@Tags			notes
//	@Produce		json
//	@Param			uuid	path		string	true	"Notebook uuid"
//	@Success		200		{object}	NoteListResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{uuid}/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Notes(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items})
}

// GetNote handles GET /api/notes/{uuid}.
//
//	@Summary		Get note metadata
//	@Tags			notes
//	@Produce		json
//	@Param			uuid	path		string	true	"Note uuid"
//	@Success		200		{object}	NoteItem
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{uuid} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Note(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// GetContent handles GET /api/notes/{uuid}/content.
//
//	@Summary		Get the structured content of a note
//	@Tags			notes
//	@Produce		json
//	@Param			uuid	path		string	true	"Note uuid"
//	@Success		200		{object}	ContentResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{uuid}/content [get]
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	c, err := h.svc.Content(r.Context(), uuid)
	if err != nil {
		writeError(w, "get content", err)
		return
	}
	cells := make([]CellItem, len(c.Cells))
	for i, cell := range c.Cells {
		cells[i] = CellItem{Type: cell.Type.String(), Data: cell.Data}
	}
	writeJSON(w, http.StatusOK, ContentResponse{UUID: uuid, Title: c.Title, Cells: cells})
}

// GetMarkup handles GET /api/notes/{uuid}/markup.
//
//	@Summary		Export a note as markup
//	@Tags			markup
//	@Produce		plain
//	@Param			uuid			path	string	true	"Note uuid"
//	@Param			If-None-Match	header	string	false	"Checksum of a cached copy"
//	@Success		200				{string}	string
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{uuid}/markup [get]
func (h *Handler) GetMarkup(w http.ResponseWriter, r *http.Request) {
	md, err := h.svc.Markup(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, "get markup", err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(md.Checksum))
	if checksum.Matches(r.Header.Get("If-None-Match"), md.Checksum) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeText(w, http.StatusOK, md.Text)
}

// PutMarkup handles PUT /api/notes/{uuid}/markup.
//
//	@Summary		Replace a note's cells from markup
//	@Tags			markup
//	@Accept			plain
//	@Produce		plain
//	@Param			uuid	path	string	true	"Note uuid"
//	@Success		200		{string}	string
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		413		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{uuid}/markup [put]
func (h *Handler) PutMarkup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMarkupBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("markup too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	md, err := h.svc.SaveMarkup(r.Context(), chi.URLParam(r, "uuid"), string(body))
	if err != nil {
		if apperr.KindOf(err) != nil {
			writeError(w, "put markup", err)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	w.Header().Set("ETag", strconv.Quote(md.Checksum))
	writeText(w, http.StatusOK, md.Text)
}

// GetHTML handles GET /api/notes/{uuid}/html.
//
//	@Summary		Render a note as HTML
//	@Tags			notes
//	@Produce		html
//	@Param			uuid	path	string	true	"Note uuid"
//	@Success		200		{string}	string
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{uuid}/html [get]
func (h *Handler) GetHTML(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.HTML(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, "render note", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}
