package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/pkg/query"
	"github.com/barometerhq/barometer/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a session System backed by the given database.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "sessions"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) ForOwner(ctx context.Context, ownerID uuid.UUID, days int) ([]Session, error) {
	q, args := query.NewBuilder(analyzedProjection, defaultSort).
		WhereEquals("OwnerID", ownerID).
		Build()

	rows, err := repository.QueryMany(ctx, r.db, q, args, scanAnalyzed)
	if err != nil {
		return nil, fmt.Errorf("query analyzed entries: %w", err)
	}

	// The window applies to session timestamps, not entry timestamps, so
	// a recent batch keeps its older members.
	sessions := Window(Collapse(rows), days, time.Now().UTC())

	r.logger.Debug("sessions collapsed",
		"owner", ownerID,
		"entries", len(rows),
		"sessions", len(sessions),
	)

	return sessions, nil
}
