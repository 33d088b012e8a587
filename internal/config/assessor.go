package config

import (
	"fmt"
	"os"
	"time"

	"github.com/barometerhq/barometer/internal/assessor"
)

const (
	EnvAssessorAPIKey  = "BAROMETER_ASSESSOR_API_KEY"
	EnvAssessorBaseURL = "BAROMETER_ASSESSOR_BASE_URL"
	EnvAssessorModel   = "BAROMETER_ASSESSOR_MODEL"
)

// AssessorConfig holds the completion service identity and orchestration
// settings for symptom assessment. Zero orchestration values defer to the
// assessor package defaults.
type AssessorConfig struct {
	APIKey              string  `toml:"api_key"`
	BaseURL             string  `toml:"base_url"`
	Model               string  `toml:"model"`
	Temperature         float64 `toml:"temperature"`
	TopP                float64 `toml:"top_p"`
	TopK                int     `toml:"top_k"`
	MaxOutputTokens     int64   `toml:"max_output_tokens"`
	BatchMaxTokens      int64   `toml:"batch_max_tokens"`
	BatchRetries        int     `toml:"batch_retries"`
	SymptomRetries      int     `toml:"symptom_retries"`
	BackoffStep         string  `toml:"backoff_step"`
	FallbackSpacing     string  `toml:"fallback_spacing"`
	FallbackConcurrency int     `toml:"fallback_concurrency"`
}

// BackoffStepDuration returns BackoffStep as a time.Duration.
func (c *AssessorConfig) BackoffStepDuration() time.Duration {
	d, _ := time.ParseDuration(c.BackoffStep)
	return d
}

// FallbackSpacingDuration returns FallbackSpacing as a time.Duration.
func (c *AssessorConfig) FallbackSpacingDuration() time.Duration {
	d, _ := time.ParseDuration(c.FallbackSpacing)
	return d
}

// Options returns the orchestration options for the assessor system.
func (c *AssessorConfig) Options() assessor.Options {
	return assessor.Options{
		Generation: assessor.Generation{
			Temperature:     c.Temperature,
			TopP:            c.TopP,
			TopK:            c.TopK,
			MaxOutputTokens: c.MaxOutputTokens,
		},
		BatchMaxTokens:      c.BatchMaxTokens,
		BatchRetries:        c.BatchRetries,
		SymptomRetries:      c.SymptomRetries,
		BackoffStep:         c.BackoffStepDuration(),
		FallbackSpacing:     c.FallbackSpacingDuration(),
		FallbackConcurrency: c.FallbackConcurrency,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AssessorConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AssessorConfig) Merge(overlay *AssessorConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.TopP != 0 {
		c.TopP = overlay.TopP
	}
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
	if overlay.MaxOutputTokens != 0 {
		c.MaxOutputTokens = overlay.MaxOutputTokens
	}
	if overlay.BatchMaxTokens != 0 {
		c.BatchMaxTokens = overlay.BatchMaxTokens
	}
	if overlay.BatchRetries != 0 {
		c.BatchRetries = overlay.BatchRetries
	}
	if overlay.SymptomRetries != 0 {
		c.SymptomRetries = overlay.SymptomRetries
	}
	if overlay.BackoffStep != "" {
		c.BackoffStep = overlay.BackoffStep
	}
	if overlay.FallbackSpacing != "" {
		c.FallbackSpacing = overlay.FallbackSpacing
	}
	if overlay.FallbackConcurrency != 0 {
		c.FallbackConcurrency = overlay.FallbackConcurrency
	}
}

func (c *AssessorConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.TopP == 0 {
		c.TopP = 0.7
	}
	if c.TopK == 0 {
		c.TopK = 10
	}
}

func (c *AssessorConfig) loadEnv() {
	if v := os.Getenv(EnvAssessorAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvAssessorBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAssessorModel); v != "" {
		c.Model = v
	}
}

func (c *AssessorConfig) validate() error {
	if c.BackoffStep != "" {
		if _, err := time.ParseDuration(c.BackoffStep); err != nil {
			return fmt.Errorf("invalid backoff_step: %w", err)
		}
	}
	if c.FallbackSpacing != "" {
		if _, err := time.ParseDuration(c.FallbackSpacing); err != nil {
			return fmt.Errorf("invalid fallback_spacing: %w", err)
		}
	}
	return nil
}
