package detection

import (
	"errors"
	"net/http"
)

// ErrInvalidOwner indicates a malformed owner identifier.
var ErrInvalidOwner = errors.New("invalid owner identifier")

// MapHTTPStatus maps detection errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidOwner) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
