package entries

import (
	"errors"
	"net/http"
	"strings"
)

// Domain errors for journal entry operations.
var (
	ErrNotFound       = errors.New("entry not found")
	ErrBatchNotFound  = errors.New("import batch not found")
	ErrDuplicate      = errors.New("entry already exists")
	ErrInvalidContent = errors.New("entry content must be at least 5 characters and 2 words")
	ErrInvalidRequest = errors.New("invalid request")
	ErrEmptyImport    = errors.New("import contains no usable messages")
	ErrImportTooLarge = errors.New("import payload exceeds maximum size")
	ErrStatusConflict = errors.New("entry was claimed or modified by another pipeline")
)

// MapHTTPStatus maps entry domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrBatchNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrStatusConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidContent) || errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrEmptyImport) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrImportTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// ValidateContent enforces the minimal boundary checks on entry text:
// non-empty after trimming, at least 5 characters, at least 2 words.
// Cleaning beyond this is the caller's responsibility.
func ValidateContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < 5 || len(strings.Fields(trimmed)) < 2 {
		return ErrInvalidContent
	}
	return nil
}
