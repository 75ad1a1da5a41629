package observations

import (
	"errors"
	"net/http"
)

// Domain errors for observation operations.
var (
	ErrNotFound      = errors.New("observation not found")
	ErrDuplicate     = errors.New("observation already exists")
	ErrInvalidInput  = errors.New("invalid observation input")
	ErrInvalidAction = errors.New("invalid review action")
	ErrInvalidStatus = errors.New("observation is not awaiting review")
)

// MapHTTPStatus maps observation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInvalidStatus):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
