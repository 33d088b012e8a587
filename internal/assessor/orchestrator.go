package assessor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/barometerhq/barometer/internal/scoring"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Orchestration defaults matching the documented assessment cadence.
const (
	DefaultBatchRetries        = 3
	DefaultSymptomRetries      = 5
	DefaultBackoffStep         = 5 * time.Second
	DefaultFallbackSpacing     = 2500 * time.Millisecond
	DefaultFallbackConcurrency = 1
	DefaultBatchMaxTokens      = 4096
)

// Options tunes the orchestration loop. New replaces zero values with the
// package defaults.
type Options struct {
	// Generation is applied to every completion request. BatchMaxTokens
	// overrides its token budget on the batch path only.
	Generation     Generation
	BatchMaxTokens int64

	// BatchRetries and SymptomRetries are total attempt budgets, not
	// counts of retries after the first failure.
	BatchRetries   int
	SymptomRetries int

	// BackoffStep scales the linear wait between attempts: attempt i
	// waits i times the step before attempt i+1.
	BackoffStep time.Duration

	// FallbackSpacing is the minimum interval between per-symptom calls;
	// FallbackConcurrency bounds how many run at once. Spacing is enforced
	// by a shared token bucket so raising concurrency never exceeds the
	// external throughput contract.
	FallbackSpacing     time.Duration
	FallbackConcurrency int
}

func (o Options) withDefaults() Options {
	if o.BatchRetries <= 0 {
		o.BatchRetries = DefaultBatchRetries
	}
	if o.SymptomRetries <= 0 {
		o.SymptomRetries = DefaultSymptomRetries
	}
	if o.BackoffStep <= 0 {
		o.BackoffStep = DefaultBackoffStep
	}
	if o.FallbackSpacing <= 0 {
		o.FallbackSpacing = DefaultFallbackSpacing
	}
	if o.FallbackConcurrency <= 0 {
		o.FallbackConcurrency = DefaultFallbackConcurrency
	}
	if o.BatchMaxTokens <= 0 {
		o.BatchMaxTokens = DefaultBatchMaxTokens
	}
	return o
}

type orchestrator struct {
	client  Client
	opts    Options
	logger  *slog.Logger
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

// New creates an orchestrating System over the given completion client.
func New(client Client, opts Options, logger *slog.Logger) System {
	opts = opts.withDefaults()
	return &orchestrator{
		client:  client,
		opts:    opts,
		logger:  logger.With("system", "assessor"),
		limiter: rate.NewLimiter(rate.Every(opts.FallbackSpacing), 1),
		sleep:   sleepContext,
	}
}

// Assess scores the combined texts against the full symptom catalog. The
// result always carries all 21 entries; symptoms that could not be scored
// carry the level zero default instead of failing the call.
func (o *orchestrator) Assess(ctx context.Context, texts []string) (scoring.SymptomScores, error) {
	combined := strings.TrimSpace(strings.Join(texts, " "))
	if combined == "" {
		return scoring.Default(), nil
	}

	raw, err := o.completeBatch(ctx, combined)
	if err == nil {
		return scoring.Parse(raw), nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	o.logger.Warn("batch assessment failed, degrading to per-symptom fallback", "error", err)
	return o.fallback(ctx, combined)
}

// completeBatch runs the batch prompt with the transient-retry policy.
// Both retry exhaustion and non-transient failures surface as errors so
// the caller can degrade to the fallback path.
func (o *orchestrator) completeBatch(ctx context.Context, text string) (string, error) {
	prompt := BatchPrompt(text)
	gen := o.opts.Generation
	gen.MaxOutputTokens = o.opts.BatchMaxTokens

	var lastErr error
	for attempt := 1; attempt <= o.opts.BatchRetries; attempt++ {
		raw, err := o.client.Complete(ctx, prompt, gen)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return "", err
		}
		if attempt < o.opts.BatchRetries {
			wait := time.Duration(attempt) * o.opts.BackoffStep
			o.logger.Warn("transient completion failure",
				"attempt", attempt,
				"retries", o.opts.BatchRetries,
				"wait", wait,
				"error", err)
			if err := o.sleep(ctx, wait); err != nil {
				return "", err
			}
		}
	}
	return "", lastErr
}

// fallback assesses each symptom individually through a bounded-concurrency
// queue. Spacing between calls is enforced by the shared limiter regardless
// of concurrency.
func (o *orchestrator) fallback(ctx context.Context, text string) (scoring.SymptomScores, error) {
	scores := make(scoring.SymptomScores, scoring.SymptomCount)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.FallbackConcurrency)

	for _, sym := range scoring.Symptoms() {
		g.Go(func() error {
			if err := o.limiter.Wait(gctx); err != nil {
				return err
			}
			score := o.assessSymptom(gctx, sym, text)

			mu.Lock()
			scores[sym.ID] = score
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores.Fill(), nil
}

// assessSymptom runs the single-symptom prompt with its own retry budget.
// Failure never propagates: exhaustion, non-transient errors, and unusable
// responses all resolve to the level zero default.
func (o *orchestrator) assessSymptom(ctx context.Context, sym scoring.Symptom, text string) scoring.SymptomScore {
	prompt := SymptomPrompt(sym, text)

	for attempt := 1; attempt <= o.opts.SymptomRetries; attempt++ {
		raw, err := o.client.Complete(ctx, prompt, o.opts.Generation)
		if err == nil {
			if score, ok := scoring.ParseSingle(raw); ok {
				return score
			}
			o.logger.Warn("unusable symptom response", "symptom", sym.ID)
			break
		}

		if !IsTransient(err) || ctx.Err() != nil {
			o.logger.Warn("symptom assessment failed", "symptom", sym.ID, "error", err)
			break
		}
		if attempt < o.opts.SymptomRetries {
			wait := time.Duration(attempt) * o.opts.BackoffStep
			if err := o.sleep(ctx, wait); err != nil {
				break
			}
		}
	}
	return scoring.SymptomScore{Level: scoring.MinLevel, Reason: scoring.DefaultReason}
}
