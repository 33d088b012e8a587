package entries

import (
	"context"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/pkg/pagination"
)

// System defines the public contract for journal entry domain operations.
type System interface {
	Handler(maxImportBytes int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entry], error)

	Find(ctx context.Context, id uuid.UUID) (*Entry, error)
	Create(ctx context.Context, cmd CreateCommand) (*Entry, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Import(ctx context.Context, cmd ImportCommand) (*ImportResult, error)
	FindBatch(ctx context.Context, id uuid.UUID) (*ImportBatch, error)
	BatchEntries(ctx context.Context, batchID uuid.UUID) ([]Entry, error)

	// Claim transitions an entry to processing if and only if it is
	// claimable (pending or failed) and still at the presented version.
	// A lost race reports ErrStatusConflict.
	Claim(ctx context.Context, id uuid.UUID, version int) (*Entry, error)
}
