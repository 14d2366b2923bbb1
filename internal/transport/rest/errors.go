package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain sentinel errors to HTTP status codes.
// Anything unrecognized is logged and reported as a 500 without
// leaking internals.
func writeServiceError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusGone, "expired")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrCorrupted):
		log.ErrorContext(r.Context(), "stored content corrupted", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "stored content corrupted")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
