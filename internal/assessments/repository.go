package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/internal/assessor"
	"github.com/barometerhq/barometer/internal/entries"
	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/internal/sentiment"
	"github.com/barometerhq/barometer/pkg/pagination"
	"github.com/barometerhq/barometer/pkg/query"
	"github.com/barometerhq/barometer/pkg/repository"
)

type repo struct {
	db         *sql.DB
	entries    entries.System
	assessor   assessor.System
	analyzer   sentiment.Analyzer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an assessment repository implementing the System interface.
func New(
	db *sql.DB,
	entrySys entries.System,
	asr assessor.System,
	analyzer sentiment.Analyzer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		entries:    entrySys,
		assessor:   asr,
		analyzer:   analyzer,
		logger:     logger.With("system", "assessments"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

const assessmentColumns = `id, entry_id, scores, total, severity, created_at, updated_at`

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Assessment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Severity")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAssessment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) FindByEntry(ctx context.Context, entryID uuid.UUID) (*Assessment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("EntryID", entryID)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAssessment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Scorecard(ctx context.Context, entryID uuid.UUID) (*scoring.Scorecard, error) {
	a, err := r.FindByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	card := scoring.ComputeScorecard(a.Scores)
	return &card, nil
}

func (r *repo) SentimentByEntry(ctx context.Context, entryID uuid.UUID) (*SentimentReading, error) {
	q, args := query.NewBuilder(sentimentProjection).BuildSingle("EntryID", entryID)

	reading, err := repository.QueryOne(ctx, r.db, q, args, scanReading)
	if err != nil {
		return nil, repository.MapError(err, ErrSentimentNotFound, ErrDuplicate)
	}
	return &reading, nil
}

func (r *repo) Assess(ctx context.Context, entryID uuid.UUID) (*Assessment, error) {
	entry, err := r.entries.Find(ctx, entryID)
	if err != nil {
		return nil, err
	}

	claimed, err := r.entries.Claim(ctx, entry.ID, entry.Version)
	if err != nil {
		return nil, err
	}

	scores, dist, err := r.analyze(ctx, claimed.Content)
	if err != nil {
		r.markFailed(claimed.ID, claimed.Version, err)
		return nil, fmt.Errorf("assess entry %s: %w", entryID, err)
	}

	a, err := r.saveResult(ctx, claimed.ID, claimed.Version, scores, dist)
	if err != nil {
		if !errors.Is(err, ErrEntryChanged) {
			r.markFailed(claimed.ID, claimed.Version, err)
		}
		return nil, err
	}

	r.logger.Info(
		"entry assessed",
		"id", a.ID,
		"entry", entryID,
		"total", a.Total,
		"severity", a.Severity,
	)
	return a, nil
}

func (r *repo) AssessBatch(ctx context.Context, batchID uuid.UUID) ([]Assessment, error) {
	if _, err := r.entries.FindBatch(ctx, batchID); err != nil {
		return nil, err
	}

	members, err := r.entries.BatchEntries(ctx, batchID)
	if err != nil {
		return nil, err
	}

	claimed, err := r.claimBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(claimed) == 0 {
		return nil, ErrNoneClaimable
	}

	contents := make([]string, len(members))
	for i, m := range members {
		contents[i] = m.Content
	}

	scores, dist, err := r.analyze(ctx, strings.Join(contents, "\n"))
	if err != nil {
		for _, c := range claimed {
			r.markFailed(c.ID, c.Version, err)
		}
		return nil, fmt.Errorf("assess batch %s: %w", batchID, err)
	}

	// The shared batch result is written per member so an edit to one entry
	// mid-run discards only that member's copy.
	results := make([]Assessment, 0, len(claimed))
	var lastErr error
	for _, c := range claimed {
		a, err := r.saveResult(ctx, c.ID, c.Version, scores, dist)
		if err != nil {
			if errors.Is(err, ErrEntryChanged) {
				r.logger.Warn("batch member changed during assessment", "entry", c.ID)
				continue
			}
			r.markFailed(c.ID, c.Version, err)
			lastErr = err
			continue
		}
		results = append(results, *a)
	}

	if len(results) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrEntryChanged
	}

	r.logger.Info(
		"batch assessed",
		"batch", batchID,
		"members", len(claimed),
		"stored", len(results),
	)
	return results, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM assessments WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("assessment deleted", "id", id)
	return nil
}

// analyze chunks the text and runs symptom scoring plus sentiment analysis
// per chunk. Chunk results are combined into one score map and one averaged
// distribution. Sentiment failures skip the chunk's distribution; only
// cancellation aborts the run.
func (r *repo) analyze(
	ctx context.Context,
	content string,
) (scoring.SymptomScores, sentiment.Distribution, error) {
	chunks := chunkText(content, chunkWords, chunkMinWords, chunkMaxParts)

	parts := make([]scoring.SymptomScores, 0, len(chunks))
	dists := make([]sentiment.Distribution, 0, len(chunks))

	for _, chunk := range chunks {
		scores, err := r.assessor.Assess(ctx, []string{chunk})
		if err != nil {
			return nil, sentiment.Distribution{}, err
		}
		parts = append(parts, scores)

		pred, err := r.analyzer.Analyze(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return nil, sentiment.Distribution{}, ctx.Err()
			}
			r.logger.Warn("sentiment analysis failed for chunk", "error", err)
			continue
		}
		dists = append(dists, pred.Distribution)
	}

	return scoring.Combine(parts), sentiment.Average(dists), nil
}

// saveResult persists the assessment, its sentiment reading, and the entry's
// completed status in one transaction. The entry write is guarded by the
// claimed version; a mismatch rolls everything back with ErrEntryChanged.
func (r *repo) saveResult(
	ctx context.Context,
	entryID uuid.UUID,
	version int,
	scores scoring.SymptomScores,
	dist sentiment.Distribution,
) (*Assessment, error) {
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("marshal scores: %w", err)
	}

	total := scores.Total()
	severity := scoring.SeverityFor(float64(total))
	label := sentiment.LabelFor(dist)

	upsertQ := fmt.Sprintf(`
		INSERT INTO assessments(id, entry_id, scores, total, severity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (entry_id) DO UPDATE SET
			scores = EXCLUDED.scores,
			total = EXCLUDED.total,
			severity = EXCLUDED.severity,
			updated_at = NOW()
		RETURNING %s`, assessmentColumns)

	sentimentQ := `
		INSERT INTO sentiment_readings(id, entry_id, label, positive, neutral, negative)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (entry_id) DO UPDATE SET
			label = EXCLUDED.label,
			positive = EXCLUDED.positive,
			neutral = EXCLUDED.neutral,
			negative = EXCLUDED.negative`

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Assessment, error) {
		assessment, err := repository.QueryOne(ctx, tx, upsertQ, []any{
			uuid.New(),
			entryID,
			scoresJSON,
			total,
			severity,
		}, scanAssessment)
		if err != nil {
			return Assessment{}, fmt.Errorf("upsert assessment: %w", err)
		}

		if _, err := tx.ExecContext(ctx, sentimentQ,
			uuid.New(),
			entryID,
			label,
			dist.Positive,
			dist.Neutral,
			dist.Negative,
		); err != nil {
			return Assessment{}, fmt.Errorf("upsert sentiment: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE journal_entries
			 SET status = $3, status_error = NULL, version = version + 1, updated_at = NOW()
			 WHERE id = $1 AND version = $2 AND status = $4`,
			entryID,
			version,
			entries.StatusCompleted,
			entries.StatusProcessing,
		); err != nil {
			return Assessment{}, repository.MapError(err, ErrEntryChanged, ErrDuplicate)
		}

		return assessment, nil
	})

	if err != nil {
		return nil, err
	}

	return &a, nil
}

type claimRef struct {
	ID      uuid.UUID
	Version int
}

func scanClaimRef(s repository.Scanner) (claimRef, error) {
	var c claimRef
	err := s.Scan(&c.ID, &c.Version)
	return c, err
}

// claimBatch claims every claimable member of a batch in one statement and
// returns their post-claim versions.
func (r *repo) claimBatch(ctx context.Context, batchID uuid.UUID) ([]claimRef, error) {
	q := `
		UPDATE journal_entries
		SET status = $2, status_error = NULL, version = version + 1, updated_at = NOW()
		WHERE batch_id = $1 AND status IN ($3, $4)
		RETURNING id, version`

	claimed, err := repository.QueryMany(ctx, r.db, q, []any{
		batchID,
		entries.StatusProcessing,
		entries.StatusPending,
		entries.StatusFailed,
	}, scanClaimRef)
	if err != nil {
		return nil, fmt.Errorf("claim batch entries: %w", err)
	}

	return claimed, nil
}

// markFailed records a pipeline failure on the entry. It runs on a fresh
// context so the failure survives cancellation of the triggering request,
// and is guarded by the claimed version so an edit mid-run wins.
func (r *repo) markFailed(id uuid.UUID, version int, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE journal_entries
		 SET status = $3, status_error = $4, version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND version = $2 AND status = $5`,
		id,
		version,
		entries.StatusFailed,
		cause.Error(),
		entries.StatusProcessing,
	)
	if err != nil {
		r.logger.Warn("failed to record entry failure", "id", id, "error", err)
	}
}
