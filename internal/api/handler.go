// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sudo-paoo/math-game/internal/service"
	"github.com/sudo-paoo/math-game/internal/store"
	"github.com/sudo-paoo/math-game/internal/worker"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	games    *service.GameService
	logger   *slog.Logger
	basePath string
}

// NewHandler creates a Handler with the given dependencies. basePath is the
// prefix the routes are mounted under and is used to build redirects.
func NewHandler(games *service.GameService, logger *slog.Logger, basePath string) *Handler {
	return &Handler{
		games:    games,
		logger:   logger,
		basePath: basePath,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes {"error": msg}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

type validator interface {
	Validate() error
}

// decodeAndValidate decodes the request body into dst and runs its
// Validate method. It writes a 400 and returns false on failure.
func decodeAndValidate[T validator](w http.ResponseWriter, r *http.Request, dst T) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := dst.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common service errors and writes the
// appropriate HTTP response. Returns true if an error was handled (caller
// should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, worker.ErrClosed):
		respondError(w, http.StatusServiceUnavailable, "shutting down")
	default:
		h.logger.Error("store error", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
