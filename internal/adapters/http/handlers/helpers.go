package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/longregen/roomgate/internal/adapters/http/dto"
	"github.com/longregen/roomgate/internal/adapters/http/encoding"
	"github.com/longregen/roomgate/internal/domain"
)

const maxBodyBytes = 1024 * 1024

// respond writes data as JSON or MessagePack, following the Accept header
func respond(w http.ResponseWriter, r *http.Request, data interface{}, status int) {
	if err := encoding.Write(w, r, status, data); err != nil {
		slog.WarnContext(r.Context(), "failed to write response", "path", r.URL.Path, "error", err)
	}
}

// respondError writes the error envelope
func respondError(w http.ResponseWriter, r *http.Request, errorType string, message string, status int) {
	respond(w, r, dto.NewErrorResponse(errorType, message, status), status)
}

// respondDomainError maps domain errors onto HTTP statuses
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.DomainError
	message := err.Error()
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		message = domainErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(w, r, "validation_error", message, http.StatusBadRequest)
	case errors.Is(err, domain.ErrSigning):
		slog.ErrorContext(r.Context(), "credential signing failed", "error", err)
		respondError(w, r, "signing_error", "Failed to sign credential", http.StatusInternalServerError)
	case errors.Is(err, domain.ErrDispatchNotFound):
		respondError(w, r, "not_found", message, http.StatusNotFound)
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respondError(w, r, "internal_error", "Internal server error", http.StatusInternalServerError)
	}
}

// decodeBody decodes a JSON or MessagePack request body with error handling
func decodeBody[T any](r *http.Request, w http.ResponseWriter) (*T, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req T
	if err := encoding.Decode(r, r.Body, &req); err != nil {
		respondError(w, r, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}
