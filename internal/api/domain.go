package api

import (
	"fmt"

	"github.com/barometerhq/barometer/internal/assessments"
	"github.com/barometerhq/barometer/internal/assessor"
	"github.com/barometerhq/barometer/internal/config"
	"github.com/barometerhq/barometer/internal/detection"
	"github.com/barometerhq/barometer/internal/entries"
	"github.com/barometerhq/barometer/internal/sentiment"
	"github.com/barometerhq/barometer/internal/sessions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Entries     entries.System
	Assessments assessments.System
	Sessions    sessions.System
	Detection   detection.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	client, err := assessor.NewOpenAIClient(
		cfg.Assessor.APIKey,
		cfg.Assessor.BaseURL,
		cfg.Assessor.Model,
	)
	if err != nil {
		return nil, fmt.Errorf("assessor client: %w", err)
	}
	assessorSystem := assessor.New(client, cfg.Assessor.Options(), runtime.Logger)

	// Sentiment shares the assessor credential unless deployed with its own.
	sentimentKey := cfg.Sentiment.APIKey
	if sentimentKey == "" {
		sentimentKey = cfg.Assessor.APIKey
	}
	analyzer, err := sentiment.NewOpenAIAnalyzer(
		sentimentKey,
		cfg.Sentiment.BaseURL,
		cfg.Sentiment.Model,
		cfg.Sentiment.MaxOutputTokens,
	)
	if err != nil {
		return nil, fmt.Errorf("sentiment analyzer: %w", err)
	}

	entriesSystem := entries.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	assessmentsSystem := assessments.New(
		runtime.Database.Connection(),
		entriesSystem,
		assessorSystem,
		analyzer,
		runtime.Logger,
		runtime.Pagination,
	)

	sessionsSystem := sessions.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	detectionSystem := detection.New(
		sessionsSystem,
		cfg.Detection.Policy(),
		runtime.Logger,
	)

	return &Domain{
		Entries:     entriesSystem,
		Assessments: assessmentsSystem,
		Sessions:    sessionsSystem,
		Detection:   detectionSystem,
	}, nil
}
