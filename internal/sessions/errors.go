package sessions

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidOwner indicates a malformed owner identifier.
	ErrInvalidOwner = errors.New("invalid owner identifier")

	// ErrInvalidWindow indicates a days parameter that is not a
	// non-negative integer.
	ErrInvalidWindow = errors.New("days must be a non-negative integer")
)

// MapHTTPStatus maps session errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidOwner), errors.Is(err, ErrInvalidWindow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
