package missions

import (
	"errors"
	"net/http"
)

// Domain errors for mission operations.
var (
	ErrNotFound        = errors.New("mission not found")
	ErrDuplicate       = errors.New("mission already exists")
	ErrInvalidInput    = errors.New("invalid mission input")
	ErrAlreadyAccepted = errors.New("mission already accepted by this user")
	ErrNotAccepted     = errors.New("no accepted mission found for this user")
)

// MapHTTPStatus maps mission domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotAccepted):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrAlreadyAccepted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
