package config

import (
	"os"
	"strconv"
)

const (
	EnvSentimentAPIKey    = "BAROMETER_SENTIMENT_API_KEY"
	EnvSentimentBaseURL   = "BAROMETER_SENTIMENT_BASE_URL"
	EnvSentimentModel     = "BAROMETER_SENTIMENT_MODEL"
	EnvSentimentMaxTokens = "BAROMETER_SENTIMENT_MAX_OUTPUT_TOKENS"
)

// SentimentConfig holds the completion service identity for the sentiment
// analyzer. An empty APIKey falls back to the assessor key at wiring time.
type SentimentConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	Model           string `toml:"model"`
	MaxOutputTokens int64  `toml:"max_output_tokens"`
}

// Finalize applies defaults and environment variable overrides.
func (c *SentimentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *SentimentConfig) Merge(overlay *SentimentConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.MaxOutputTokens != 0 {
		c.MaxOutputTokens = overlay.MaxOutputTokens
	}
}

func (c *SentimentConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = 512
	}
}

func (c *SentimentConfig) loadEnv() {
	if v := os.Getenv(EnvSentimentAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvSentimentBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvSentimentModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvSentimentMaxTokens); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxOutputTokens = n
		}
	}
}
