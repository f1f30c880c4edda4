package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacknode/vault-server/internal/model"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrInvalidCredentials, http.StatusUnauthorized},
		{model.ErrUnauthorized, http.StatusUnauthorized},
		{model.ErrInvalidChallenge, http.StatusUnauthorized},
		{model.ErrInvalidCode, http.StatusUnauthorized},
		{model.ErrTwoFactorNotEnabled, http.StatusUnauthorized},
		{model.ErrNoEnrollmentInProgress, http.StatusBadRequest},
		{model.ErrFileTooLarge, http.StatusBadRequest},
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrConflict, http.StatusConflict},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), "error %v", tt.err)
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused at 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "internal server error", resp.Error)
}

func TestWriteError_WrappedDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.Join(errors.New("ctx"), model.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
