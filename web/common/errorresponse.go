package common

import (
	"errors"
	"net/http"

	"jobtrack.com/jobtrack/reporting"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

// StatusFor maps reporting errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, reporting.ErrJobNotFound), errors.Is(err, reporting.ErrTimecardNotFound):
		return http.StatusNotFound
	case errors.Is(err, reporting.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, reporting.ErrNoRecipients):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reporting.ErrMailerNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
