package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"tinysteps/internal/service"
	"tinysteps/internal/validation"
)

const (
	ErrInvalidJSON         = "Invalid JSON body."
	ErrMissingBearerToken  = "Missing bearer token."
	ErrInvalidToken        = "Invalid token."
	ErrTooManyRequests     = "Too many requests. Please try again later."
	ErrInternalServerError = "Internal server error."
	ErrNotFound            = "Not found."
)

type errorBody struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		slog.Error(logMsg, "status", status, "error", err)
	}

	respondJSON(w, status, errorBody{Error: userMsg})
}

// respondWithServiceError maps a domain error to its status code.
// Validation, not found and forbidden errors carry user-facing messages.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		respondWithError(w, http.StatusBadRequest, ve.Message, "", nil)
		return
	}

	var domainErr *service.Error
	message := ErrInternalServerError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		if message == ErrInternalServerError {
			message = ErrNotFound
		}
		respondWithError(w, http.StatusNotFound, message, "", nil)
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, message, "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "unhandled service error", err)
	}
}
