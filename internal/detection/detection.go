// Package detection implements the mood trend and sustained distress engine
// for Barometer. It consumes an owner's time ordered sessions and decides
// whether a sustained low mood pattern exists, how severe the recent picture
// is, which way it is trending, and how much the sample size can be trusted.
//
// Two rules drive detection: the proportion rule catches chronic but
// intermittent elevation, and the streak rule catches a recent sharp
// downturn even when it is historically rare. Either firing is enough. The
// engine never reports a positive signal on a sparse history.
package detection

import (
	"github.com/barometerhq/barometer/internal/scoring"
)

// Trend is the direction of change between the earlier and recent halves
// of an owner's history.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendStable    Trend = "Stable"
	TrendWorsening Trend = "Worsening"
)

// Confidence grades the reliability of a result purely by sample size. It
// is independent of the detection outcome: a confident negative is as valid
// as a confident positive.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Default policy thresholds.
const (
	DefaultMinSessions      = 10
	DefaultWindowDays       = 30
	DefaultMildThreshold    = 10
	DefaultStreakMin        = 5
	DefaultProportion       = 0.5
	DefaultTrendTolerance   = 0.5
	DefaultTrendMinSessions = 4
	DefaultRecentCount      = 7
	DefaultHighConfidenceAt = 20
	DefaultMinActiveDays    = 5
)

// Policy carries the tunable thresholds of the detection engine. The zero
// value is usable: Finalize replaces unset fields with defaults.
type Policy struct {
	// MinSessions is the all time session count required before the engine
	// may report a positive signal.
	MinSessions int `json:"min_sessions"`

	// WindowDays is the trailing window, anchored at the most recent
	// session, inside which the pattern rules apply.
	WindowDays int `json:"window_days"`

	// MildThreshold marks a session as low mood when its average total
	// score reaches it, on the 0-63 scale.
	MildThreshold float64 `json:"mild_threshold"`

	// StreakMin is the consecutive run of low mood sessions that fires the
	// streak rule.
	StreakMin int `json:"streak_min"`

	// Proportion is the fraction of low mood window sessions that fires
	// the proportion rule.
	Proportion float64 `json:"proportion"`

	// TrendTolerance is the half mean gap treated as noise when comparing
	// the earlier and recent halves of the history.
	TrendTolerance float64 `json:"trend_tolerance"`

	// TrendMinSessions is the history length required before a trend call;
	// below it the trend is Stable.
	TrendMinSessions int `json:"trend_min_sessions"`

	// RecentCount is how many of the latest sessions feed the current
	// severity label.
	RecentCount int `json:"recent_count"`

	// HighConfidenceAt is the all time session count for the High tier;
	// MinSessions marks the Low to Medium boundary.
	HighConfidenceAt int `json:"high_confidence_at"`

	// MinActiveDays is the distinct calendar day count required for
	// readiness.
	MinActiveDays int `json:"min_active_days"`
}

// Finalize returns a copy of the policy with defaults applied to unset
// fields.
func (p Policy) Finalize() Policy {
	if p.MinSessions <= 0 {
		p.MinSessions = DefaultMinSessions
	}
	if p.WindowDays <= 0 {
		p.WindowDays = DefaultWindowDays
	}
	if p.MildThreshold <= 0 {
		p.MildThreshold = DefaultMildThreshold
	}
	if p.StreakMin <= 0 {
		p.StreakMin = DefaultStreakMin
	}
	if p.Proportion <= 0 {
		p.Proportion = DefaultProportion
	}
	if p.TrendTolerance <= 0 {
		p.TrendTolerance = DefaultTrendTolerance
	}
	if p.TrendMinSessions <= 0 {
		p.TrendMinSessions = DefaultTrendMinSessions
	}
	if p.RecentCount <= 0 {
		p.RecentCount = DefaultRecentCount
	}
	if p.HighConfidenceAt <= 0 {
		p.HighConfidenceAt = DefaultHighConfidenceAt
	}
	if p.MinActiveDays <= 0 {
		p.MinActiveDays = DefaultMinActiveDays
	}
	return p
}

// Result is the outcome of one detection run. It is computed on demand and
// never persisted.
type Result struct {
	Detected     bool             `json:"detected"`
	Severity     scoring.Severity `json:"severity"`
	Trend        Trend            `json:"trend"`
	Confidence   Confidence       `json:"confidence"`
	SessionsUsed int              `json:"sessions_used"`
	TimeSpanDays int              `json:"time_span_days"`
	TopSymptoms  []string         `json:"top_symptoms"`
	Explanation  string           `json:"explanation"`
}

// Readiness reports whether an owner's recent history is dense enough for
// insights to be worth showing.
type Readiness struct {
	Ready         bool   `json:"ready"`
	Sessions      int    `json:"sessions"`
	DistinctDays  int    `json:"distinct_days"`
	WindowDays    int    `json:"window_days"`
	MinSessions   int    `json:"min_sessions"`
	MinActiveDays int    `json:"min_active_days"`
	Message       string `json:"message,omitempty"`
}
