// Package assessor drives symptom assessment against a remote completion
// service. Assessment is batch-first: one prompt covering the full symptom
// catalog, retried with linear backoff on transient failures. When the
// batch path is exhausted it degrades to a per-symptom fallback queue with
// bounded concurrency and an explicit rate limiter, where an unrecoverable
// symptom defaults to level zero instead of failing the assessment.
package assessor

import (
	"context"

	"github.com/barometerhq/barometer/internal/scoring"
)

// Generation carries the sampling parameters forwarded to the completion
// service on every request. A zero MaxOutputTokens leaves the provider
// default in place.
type Generation struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int64
}

// Client is the completion transport. Implementations return the raw text
// of the model response; transport failures surface as errors and are
// classified by IsTransient.
type Client interface {
	Complete(ctx context.Context, prompt string, gen Generation) (string, error)
}

// System orchestrates assessments. Assess always returns a fully populated
// score map covering every catalog symptom; the only error it reports is
// context cancellation.
type System interface {
	Assess(ctx context.Context, texts []string) (scoring.SymptomScores, error)
}
