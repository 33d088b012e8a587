package sessions

import (
	"context"

	"github.com/google/uuid"
)

// System describes session aggregation operations.
type System interface {
	// Handler returns an HTTP handler exposing the system.
	Handler() *Handler

	// ForOwner returns the owner's sessions in chronological order. A
	// positive days restricts results to the trailing window; zero means
	// all time.
	ForOwner(ctx context.Context, ownerID uuid.UUID, days int) ([]Session, error)
}
