package assessments

import (
	"context"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/pkg/pagination"
)

// System defines the public contract for assessment domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Assessment], error)

	Find(ctx context.Context, id uuid.UUID) (*Assessment, error)
	FindByEntry(ctx context.Context, entryID uuid.UUID) (*Assessment, error)
	Scorecard(ctx context.Context, entryID uuid.UUID) (*scoring.Scorecard, error)
	SentimentByEntry(ctx context.Context, entryID uuid.UUID) (*SentimentReading, error)

	// Assess runs the analysis pipeline for one entry. The entry is claimed
	// before the completion calls begin; an edit during the run discards the
	// results with ErrEntryChanged.
	Assess(ctx context.Context, entryID uuid.UUID) (*Assessment, error)

	// AssessBatch runs the pipeline once over the joined text of a batch and
	// stores the shared result for every claimable member.
	AssessBatch(ctx context.Context, batchID uuid.UUID) ([]Assessment, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
