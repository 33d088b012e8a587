package detection

import (
	"fmt"
	"sort"
	"time"

	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/internal/sessions"
)

// User-facing summaries. Every variant that makes a claim about mood ends
// with the non-diagnosis disclaimer.
const (
	explanationNoData   = "Not enough entries yet to show insights. Keep journaling to see trends over time."
	explanationSparse   = "You have a limited number of entries so far. We'll show gentle insights, but more entries will make them clearer. This is not a diagnosis."
	explanationDetected = "Your recent entries suggest consistent low mood over the last few weeks. Consider checking in with someone you trust or a professional. This is not a diagnosis."
	explanationClear    = "Your recent entries do not show a consistent pattern of low mood. It's normal to have ups and downs. This is not a diagnosis."
)

// Analyze runs the detection rules over an owner's full session history.
// The pattern rules see only the trailing window anchored at the most
// recent session; severity, trend, and confidence read the whole history.
// Severity, trend, and top symptoms are reported even when the sparse
// history gate blocks a positive detection.
func Analyze(all []sessions.Session, p Policy) Result {
	p = p.Finalize()

	if len(all) == 0 {
		return Result{
			Severity:    scoring.SeverityMinimal,
			Trend:       TrendStable,
			Confidence:  ConfidenceLow,
			TopSymptoms: []string{},
			Explanation: explanationNoData,
		}
	}

	ordered := make([]sessions.Session, len(all))
	copy(ordered, all)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	latest := ordered[len(ordered)-1].Timestamp
	window := sessions.Window(ordered, p.WindowDays, latest)

	gate := len(ordered) >= p.MinSessions

	detected := false
	if gate && len(window) > 0 {
		flagged := lowMoodFlags(window, p.MildThreshold)
		detected = proportion(flagged) >= p.Proportion || hasStreak(flagged, p.StreakMin)
	}

	spanDays := 0
	if len(window) > 0 {
		span := window[len(window)-1].Timestamp.Sub(window[0].Timestamp)
		spanDays = int(span.Hours() / 24)
	}

	recent := ordered
	if len(recent) > p.RecentCount {
		recent = recent[len(recent)-p.RecentCount:]
	}

	trend := TrendStable
	if n := len(ordered); n >= p.TrendMinSessions {
		mid := n / 2
		early := meanTotal(ordered[:mid])
		late := meanTotal(ordered[mid:])
		switch {
		case late+p.TrendTolerance < early:
			trend = TrendImproving
		case late > early+p.TrendTolerance:
			trend = TrendWorsening
		}
	}

	confidence := ConfidenceHigh
	switch {
	case len(ordered) < p.MinSessions:
		confidence = ConfidenceLow
	case len(ordered) < p.HighConfidenceAt:
		confidence = ConfidenceMedium
	}

	explanation := explanationClear
	switch {
	case !gate:
		explanation = explanationSparse
	case detected:
		explanation = explanationDetected
	}

	return Result{
		Detected:     detected,
		Severity:     scoring.SeverityFor(meanTotal(recent)),
		Trend:        trend,
		Confidence:   confidence,
		SessionsUsed: len(window),
		TimeSpanDays: spanDays,
		TopSymptoms:  topSymptoms(window, 3),
		Explanation:  explanation,
	}
}

// AssessReadiness checks whether the trailing window, anchored at now,
// holds enough sessions across enough distinct days for insights to be
// worth showing.
func AssessReadiness(all []sessions.Session, p Policy, now time.Time) Readiness {
	p = p.Finalize()

	window := sessions.Window(all, p.WindowDays, now)
	days := sessions.DistinctDays(window)

	r := Readiness{
		Sessions:      len(window),
		DistinctDays:  days,
		WindowDays:    p.WindowDays,
		MinSessions:   p.MinSessions,
		MinActiveDays: p.MinActiveDays,
	}

	r.Ready = r.Sessions >= p.MinSessions && r.DistinctDays >= p.MinActiveDays
	if !r.Ready {
		r.Message = fmt.Sprintf(
			"Keep journaling to unlock insights: %d of %d sessions across %d of %d days in the last %d days.",
			r.Sessions, p.MinSessions, r.DistinctDays, p.MinActiveDays, p.WindowDays,
		)
	}

	return r
}

func lowMoodFlags(window []sessions.Session, threshold float64) []bool {
	flags := make([]bool, len(window))
	for i, s := range window {
		flags[i] = s.AvgTotal >= threshold
	}
	return flags
}

func proportion(flags []bool) float64 {
	if len(flags) == 0 {
		return 0
	}
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(flags))
}

func hasStreak(flags []bool, minLen int) bool {
	run := 0
	for _, f := range flags {
		if f {
			run++
			if run >= minLen {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

func meanTotal(ss []sessions.Session) float64 {
	if len(ss) == 0 {
		return 0
	}
	var sum float64
	for _, s := range ss {
		sum += s.AvgTotal
	}
	return sum / float64(len(ss))
}

// topSymptoms averages every symptom over the window and returns the
// highest averaging names. Ties keep catalog order.
func topSymptoms(window []sessions.Session, limit int) []string {
	if len(window) == 0 {
		return []string{}
	}

	catalog := scoring.Symptoms()
	avgs := make([]float64, len(catalog))
	for i, sym := range catalog {
		var sum float64
		for _, s := range window {
			sum += s.SymptomAvgs[sym.ID]
		}
		avgs[i] = sum / float64(len(window))
	}

	idx := make([]int, len(catalog))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return avgs[idx[a]] > avgs[idx[b]]
	})

	if limit > len(idx) {
		limit = len(idx)
	}
	names := make([]string, 0, limit)
	for _, i := range idx[:limit] {
		names = append(names, catalog[i].Name)
	}
	return names
}
