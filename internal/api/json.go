package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/qvlib/internal/apperr"
	"github.com/starford/qvlib/internal/noteservice"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
	Path  string `json:"path,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps an error kind to a status code. Library paths are only
// echoed for decode errors, where they identify the broken file.
func writeError(w http.ResponseWriter, op string, err error) {
	switch kind := apperr.KindOf(err); {
	case kind == apperr.ErrDecode:
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{Error: "malformed library file", Path: apperr.PathOf(err)})
	case kind == apperr.ErrNotFound:
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case kind == apperr.ErrPermission:
		writeJSON(w, http.StatusForbidden, errorBody("permission denied"))
	case errors.Is(err, noteservice.ErrSearchDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("search disabled"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
