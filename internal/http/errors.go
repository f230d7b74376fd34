package httpapi

import (
	"errors"
	"net/http"

	"rainpath-cases/internal/domain"

	"go.uber.org/zap"
)

const msgNumericID = "Validation failed (numeric string is expected)"

// ErrorBody error payload. Message is a string, or a list of strings for validation failures.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error,omitempty"`
}

func writeErrorMessage(w http.ResponseWriter, status int, message any) {
	writeJSON(w, status, ErrorBody{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// writeError maps the domain taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
		notFound   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		writeErrorMessage(w, http.StatusBadRequest, validation.Messages)
	case errors.As(err, &conflict):
		writeErrorMessage(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &notFound):
		writeErrorMessage(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, errBodyTooLarge):
		writeErrorMessage(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorBody{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
		})
	}
}
