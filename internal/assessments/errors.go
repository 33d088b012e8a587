package assessments

import (
	"errors"
	"net/http"

	"github.com/barometerhq/barometer/internal/entries"
)

// Domain errors for assessment operations.
var (
	ErrNotFound          = errors.New("assessment not found")
	ErrSentimentNotFound = errors.New("sentiment reading not found")
	ErrDuplicate         = errors.New("assessment already exists")
	ErrEntryChanged      = errors.New("entry changed during assessment")
	ErrNoneClaimable     = errors.New("no batch entries are claimable for assessment")
)

// MapHTTPStatus maps assessment domain errors to appropriate HTTP status
// codes. Entry domain errors surfaced by the pipeline delegate to the entry
// mapping.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSentimentNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrEntryChanged) || errors.Is(err, ErrNoneClaimable) {
		return http.StatusConflict
	}
	return entries.MapHTTPStatus(err)
}
