package config

import (
	"os"
	"strconv"

	"github.com/barometerhq/barometer/internal/detection"
)

const (
	EnvDetectionMinSessions   = "BAROMETER_DETECTION_MIN_SESSIONS"
	EnvDetectionWindowDays    = "BAROMETER_DETECTION_WINDOW_DAYS"
	EnvDetectionMildThreshold = "BAROMETER_DETECTION_MILD_THRESHOLD"
	EnvDetectionStreakMin     = "BAROMETER_DETECTION_STREAK_MIN"
	EnvDetectionProportion    = "BAROMETER_DETECTION_PROPORTION"
)

// DetectionConfig exposes the detection engine thresholds as deployment
// policy. Zero values defer to the detection package defaults.
type DetectionConfig struct {
	MinSessions      int     `toml:"min_sessions"`
	WindowDays       int     `toml:"window_days"`
	MildThreshold    float64 `toml:"mild_threshold"`
	StreakMin        int     `toml:"streak_min"`
	Proportion       float64 `toml:"proportion"`
	TrendTolerance   float64 `toml:"trend_tolerance"`
	TrendMinSessions int     `toml:"trend_min_sessions"`
	RecentCount      int     `toml:"recent_count"`
	HighConfidenceAt int     `toml:"high_confidence_at"`
	MinActiveDays    int     `toml:"min_active_days"`
}

// Policy returns the engine policy for the detection system.
func (c *DetectionConfig) Policy() detection.Policy {
	return detection.Policy{
		MinSessions:      c.MinSessions,
		WindowDays:       c.WindowDays,
		MildThreshold:    c.MildThreshold,
		StreakMin:        c.StreakMin,
		Proportion:       c.Proportion,
		TrendTolerance:   c.TrendTolerance,
		TrendMinSessions: c.TrendMinSessions,
		RecentCount:      c.RecentCount,
		HighConfidenceAt: c.HighConfidenceAt,
		MinActiveDays:    c.MinActiveDays,
	}.Finalize()
}

// Finalize applies environment variable overrides. Defaults live in the
// detection package so the engine stays usable without configuration.
func (c *DetectionConfig) Finalize() error {
	c.loadEnv()
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *DetectionConfig) Merge(overlay *DetectionConfig) {
	if overlay.MinSessions != 0 {
		c.MinSessions = overlay.MinSessions
	}
	if overlay.WindowDays != 0 {
		c.WindowDays = overlay.WindowDays
	}
	if overlay.MildThreshold != 0 {
		c.MildThreshold = overlay.MildThreshold
	}
	if overlay.StreakMin != 0 {
		c.StreakMin = overlay.StreakMin
	}
	if overlay.Proportion != 0 {
		c.Proportion = overlay.Proportion
	}
	if overlay.TrendTolerance != 0 {
		c.TrendTolerance = overlay.TrendTolerance
	}
	if overlay.TrendMinSessions != 0 {
		c.TrendMinSessions = overlay.TrendMinSessions
	}
	if overlay.RecentCount != 0 {
		c.RecentCount = overlay.RecentCount
	}
	if overlay.HighConfidenceAt != 0 {
		c.HighConfidenceAt = overlay.HighConfidenceAt
	}
	if overlay.MinActiveDays != 0 {
		c.MinActiveDays = overlay.MinActiveDays
	}
}

func (c *DetectionConfig) loadEnv() {
	if v := os.Getenv(EnvDetectionMinSessions); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinSessions = n
		}
	}
	if v := os.Getenv(EnvDetectionWindowDays); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.WindowDays = n
		}
	}
	if v := os.Getenv(EnvDetectionMildThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MildThreshold = f
		}
	}
	if v := os.Getenv(EnvDetectionStreakMin); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.StreakMin = n
		}
	}
	if v := os.Getenv(EnvDetectionProportion); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Proportion = f
		}
	}
}
