package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blacknode/vault-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps domain errors onto HTTP statuses. Anything unmapped is
// an internal error and must not leak its message to the client.
func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrUnauthorized),
		errors.Is(err, model.ErrInvalidChallenge),
		errors.Is(err, model.ErrInvalidCode),
		errors.Is(err, model.ErrTwoFactorNotEnabled):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNoEnrollmentInProgress),
		errors.Is(err, model.ErrFileTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
