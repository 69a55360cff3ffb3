package errors

import (
	"errors"
	"net/http"

	"github.com/tsel-ticketmaster/tm-analytics/pkg/status"
)

// AppError carries the HTTP status code and application status alongside the
// message, so callers can translate a failure without inspecting its cause.
type AppError struct {
	HTTPStatusCode int
	Status         string
	Message        string
}

func (e *AppError) Error() string {
	return e.Message
}

func New(httpStatusCode int, appStatus string, message string) error {
	return &AppError{
		HTTPStatusCode: httpStatusCode,
		Status:         appStatus,
		Message:        message,
	}
}

// Destruct resolves any error into an AppError. Errors that did not originate
// from New are treated as internal server errors.
func Destruct(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}

	return &AppError{
		HTTPStatusCode: http.StatusInternalServerError,
		Status:         status.INTERNAL_SERVER_ERROR,
		Message:        err.Error(),
	}
}
