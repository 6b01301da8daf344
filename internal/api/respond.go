package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/menden/shop-api/internal/auth"
	"github.com/menden/shop-api/internal/repository"
	"github.com/menden/shop-api/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode failure here can only be
	// logged by the caller's middleware.
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondFailure maps domain errors to HTTP statuses. Internal failures
// are logged with detail but reported to the client redacted.
func respondFailure(log zerolog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrInvalidID):
		respondError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, service.ErrMissingPassword):
		respondError(w, http.StatusBadRequest, "password is required")
	case errors.Is(err, auth.ErrInvalidCredential):
		respondError(w, http.StatusUnauthorized, "invalid phone number or password")
	case errors.Is(err, repository.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout")
	default:
		log.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
