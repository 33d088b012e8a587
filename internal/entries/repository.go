package entries

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/pkg/pagination"
	"github.com/barometerhq/barometer/pkg/query"
	"github.com/barometerhq/barometer/pkg/repository"
	"github.com/barometerhq/barometer/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an entry repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "entries"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxImportBytes int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxImportBytes)
}

const entryColumns = `id, owner_id, kind, batch_id, content, recorded_at, status, status_error, version, created_at, updated_at`

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Entry, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Entry, error) {
	if cmd.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner_id is required", ErrInvalidRequest)
	}
	if err := ValidateContent(cmd.Content); err != nil {
		return nil, err
	}

	recordedAt := cmd.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	q := fmt.Sprintf(`
		INSERT INTO journal_entries(id, owner_id, kind, content, recorded_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, entryColumns)

	insertArgs := []any{
		uuid.New(),
		cmd.OwnerID,
		KindTyped,
		strings.TrimSpace(cmd.Content),
		recordedAt,
		StatusPending,
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanEntry)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("entry created", "id", e.ID, "owner", e.OwnerID)
	return &e, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Entry, error) {
	if err := ValidateContent(cmd.Content); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE journal_entries
		SET content = $2, status = $3, status_error = NULL, version = version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, entryColumns)

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		updated, err := repository.QueryOne(ctx, tx, q, []any{
			id,
			strings.TrimSpace(cmd.Content),
			StatusPending,
		}, scanEntry)
		if err != nil {
			return Entry{}, err
		}

		// Derived rows describe the old text and must not survive it.
		if _, err := tx.ExecContext(
			ctx,
			"DELETE FROM assessments WHERE entry_id = $1",
			id,
		); err != nil {
			return Entry{}, fmt.Errorf("discard assessment: %w", err)
		}

		if _, err := tx.ExecContext(
			ctx,
			"DELETE FROM sentiment_readings WHERE entry_id = $1",
			id,
		); err != nil {
			return Entry{}, fmt.Errorf("discard sentiment: %w", err)
		}

		return updated, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("entry updated", "id", e.ID, "version", e.Version)
	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM journal_entries WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("entry deleted", "id", id)
	return nil
}

func (r *repo) Import(ctx context.Context, cmd ImportCommand) (*ImportResult, error) {
	if cmd.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner_id is required", ErrInvalidRequest)
	}

	messages := make([]ImportMessage, 0, len(cmd.Messages))
	for _, m := range cmd.Messages {
		if ValidateContent(m.Content) != nil {
			continue
		}
		messages = append(messages, m)
	}

	messages = limitMessages(messages, importWordCap)
	if len(messages) == 0 {
		return nil, ErrEmptyImport
	}

	batchID := uuid.New()
	key := buildStorageKey(batchID, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Raw), "application/json"); err != nil {
		return nil, fmt.Errorf("archive import payload: %w", err)
	}

	now := time.Now().UTC()

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ImportResult, error) {
		batchQ := `
			INSERT INTO import_batches(id, owner_id, filename, storage_key, entry_count, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, owner_id, filename, storage_key, entry_count, created_at`

		batch, err := repository.QueryOne(ctx, tx, batchQ, []any{
			batchID,
			cmd.OwnerID,
			cmd.Filename,
			key,
			len(messages),
			now,
		}, scanBatch)
		if err != nil {
			return ImportResult{}, err
		}

		entryQ := fmt.Sprintf(`
			INSERT INTO journal_entries(id, owner_id, kind, batch_id, content, recorded_at, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING %s`, entryColumns)

		created := make([]Entry, 0, len(messages))
		for _, m := range messages {
			recordedAt := m.RecordedAt
			if recordedAt.IsZero() {
				recordedAt = now
			}

			e, err := repository.QueryOne(ctx, tx, entryQ, []any{
				uuid.New(),
				cmd.OwnerID,
				KindImported,
				batchID,
				strings.TrimSpace(m.Content),
				recordedAt,
				StatusPending,
			}, scanEntry)
			if err != nil {
				return ImportResult{}, err
			}
			created = append(created, e)
		}

		return ImportResult{Batch: batch, Entries: created}, nil
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrBatchNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"import registered",
		"batch", result.Batch.ID,
		"owner", cmd.OwnerID,
		"entries", len(result.Entries),
	)
	return &result, nil
}

func (r *repo) FindBatch(ctx context.Context, id uuid.UUID) (*ImportBatch, error) {
	q, args := query.NewBuilder(batchProjection).BuildSingle("ID", id)

	b, err := repository.QueryOne(ctx, r.db, q, args, scanBatch)
	if err != nil {
		return nil, repository.MapError(err, ErrBatchNotFound, ErrDuplicate)
	}
	return &b, nil
}

func (r *repo) BatchEntries(ctx context.Context, batchID uuid.UUID) ([]Entry, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "RecordedAt"}).
		WhereEquals("BatchID", batchID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query batch entries: %w", err)
	}
	return items, nil
}

func (r *repo) Claim(ctx context.Context, id uuid.UUID, version int) (*Entry, error) {
	q := fmt.Sprintf(`
		UPDATE journal_entries
		SET status = $3, status_error = NULL, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND status IN ($4, $5)
		RETURNING %s`, entryColumns)

	e, err := repository.QueryOne(ctx, r.db, q, []any{
		id,
		version,
		StatusProcessing,
		StatusPending,
		StatusFailed,
	}, scanEntry)

	if err != nil {
		// Distinguish a missing entry from a lost claim race.
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, repository.MapError(err, ErrStatusConflict, ErrDuplicate)
	}

	r.logger.Debug("entry claimed", "id", e.ID, "version", e.Version)
	return &e, nil
}

func buildStorageKey(batchID uuid.UUID, filename string) string {
	return fmt.Sprintf("imports/%s/%s", batchID, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "import"
	}
	return url.PathEscape(name)
}
