package detection

import (
	"context"

	"github.com/google/uuid"
)

// System describes detection operations.
type System interface {
	// Handler returns an HTTP handler exposing the system.
	Handler() *Handler

	// Detect runs the detection engine over the owner's full session
	// history.
	Detect(ctx context.Context, ownerID uuid.UUID) (*Result, error)

	// Readiness reports whether the owner's recent history is dense
	// enough for insights.
	Readiness(ctx context.Context, ownerID uuid.UUID) (*Readiness, error)
}
