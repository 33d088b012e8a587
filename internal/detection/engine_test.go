package detection_test

import (
	"strings"
	"testing"
	"time"

	"github.com/barometerhq/barometer/internal/detection"
	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/internal/sessions"
)

var anchor = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// daily builds one session per calendar day ending the day before anchor.
func daily(totals ...float64) []sessions.Session {
	out := make([]sessions.Session, len(totals))
	start := anchor.AddDate(0, 0, -len(totals))
	for i, total := range totals {
		out[i] = sessions.Session{
			Timestamp: start.AddDate(0, 0, i),
			AvgTotal:  total,
		}
	}
	return out
}

func repeat(total float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = total
	}
	return out
}

func TestAnalyzeGateBlocksSparseHistory(t *testing.T) {
	// Nine maximal sessions must never produce a positive signal.
	history := daily(repeat(63, 9)...)

	got := detection.Analyze(history, detection.Policy{})

	if got.Detected {
		t.Error("detected = true with 9 sessions, want false")
	}
	if got.Confidence != detection.ConfidenceLow {
		t.Errorf("confidence = %v, want %v", got.Confidence, detection.ConfidenceLow)
	}
	if !strings.Contains(got.Explanation, "limited number of entries") {
		t.Errorf("explanation = %q, want sparse history variant", got.Explanation)
	}

	// The supporting signals still describe the data.
	if got.Severity != scoring.SeveritySevere {
		t.Errorf("severity = %v, want %v", got.Severity, scoring.SeveritySevere)
	}
	if len(got.TopSymptoms) != 3 {
		t.Errorf("top symptoms = %d, want 3", len(got.TopSymptoms))
	}
}

func TestAnalyzeProportionRule(t *testing.T) {
	// 7 of 12 window sessions at or above the threshold, never more than
	// two in a row, so only the proportion rule can fire.
	history := daily(15, 15, 5, 15, 15, 5, 15, 15, 5, 5, 15, 5)

	got := detection.Analyze(history, detection.Policy{})

	if !got.Detected {
		t.Error("detected = false, want true via proportion rule")
	}
	if got.SessionsUsed != 12 {
		t.Errorf("sessions used = %d, want 12", got.SessionsUsed)
	}
	if got.Confidence != detection.ConfidenceMedium {
		t.Errorf("confidence = %v, want %v", got.Confidence, detection.ConfidenceMedium)
	}
	if !strings.Contains(got.Explanation, "consistent low mood") {
		t.Errorf("explanation = %q, want detected variant", got.Explanation)
	}
}

func TestAnalyzeStreakRule(t *testing.T) {
	// Five consecutive flagged sessions among twelve: proportion is 5/12,
	// below one half, so only the streak rule can fire.
	history := daily(5, 5, 5, 15, 15, 15, 15, 15, 5, 5, 5, 5)

	got := detection.Analyze(history, detection.Policy{})

	if !got.Detected {
		t.Error("detected = false, want true via streak rule")
	}
}

func TestAnalyzeBrokenStreakNotDetected(t *testing.T) {
	// Four in a row at most, and proportion 5/12: neither rule fires.
	history := daily(5, 5, 5, 15, 15, 15, 15, 5, 15, 5, 5, 5)

	got := detection.Analyze(history, detection.Policy{})

	if got.Detected {
		t.Error("detected = true, want false")
	}
	if !strings.Contains(got.Explanation, "do not show a consistent pattern") {
		t.Errorf("explanation = %q, want clear variant", got.Explanation)
	}
	if !strings.Contains(got.Explanation, "This is not a diagnosis.") {
		t.Errorf("explanation = %q, want disclaimer", got.Explanation)
	}
}

func TestAnalyzeTrend(t *testing.T) {
	cases := []struct {
		name   string
		totals []float64
		want   detection.Trend
	}{
		{
			name:   "strictly decreasing improves",
			totals: []float64{40, 35, 30, 25, 20, 15},
			want:   detection.TrendImproving,
		},
		{
			name:   "strictly increasing worsens",
			totals: []float64{5, 10, 15, 20, 25, 30},
			want:   detection.TrendWorsening,
		},
		{
			name:   "difference within tolerance is stable",
			totals: []float64{10, 10, 10.4, 10.4},
			want:   detection.TrendStable,
		},
		{
			name:   "too few sessions default to stable",
			totals: []float64{40, 20, 0},
			want:   detection.TrendStable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detection.Analyze(daily(tc.totals...), detection.Policy{})
			if got.Trend != tc.want {
				t.Errorf("trend = %v, want %v", got.Trend, tc.want)
			}
		})
	}
}

func TestAnalyzeSeverityReadsRecentSessions(t *testing.T) {
	// Three old severe sessions followed by seven calm ones: the label
	// reflects the last seven only.
	history := daily(40, 40, 40, 5, 5, 5, 5, 5, 5, 5)

	got := detection.Analyze(history, detection.Policy{})

	if got.Severity != scoring.SeverityMinimal {
		t.Errorf("severity = %v, want %v", got.Severity, scoring.SeverityMinimal)
	}
}

func TestAnalyzeWindowAnchoredAtLatestSession(t *testing.T) {
	// Ten severe sessions a hundred days back, two calm ones now. The
	// pattern window is anchored at the latest session, so only the calm
	// pair is eligible and nothing fires.
	old := make([]sessions.Session, 10)
	for i := range old {
		old[i] = sessions.Session{
			Timestamp: anchor.AddDate(0, 0, -100-i),
			AvgTotal:  63,
		}
	}
	history := append(old,
		sessions.Session{Timestamp: anchor.AddDate(0, 0, -1), AvgTotal: 0},
		sessions.Session{Timestamp: anchor, AvgTotal: 0},
	)

	got := detection.Analyze(history, detection.Policy{})

	if got.Detected {
		t.Error("detected = true, want false for calm window")
	}
	if got.SessionsUsed != 2 {
		t.Errorf("sessions used = %d, want 2", got.SessionsUsed)
	}
	if got.TimeSpanDays != 1 {
		t.Errorf("time span = %d, want 1", got.TimeSpanDays)
	}
}

func TestAnalyzeTopSymptoms(t *testing.T) {
	t.Run("orders by window average", func(t *testing.T) {
		history := daily(repeat(15, 10)...)
		for i := range history {
			history[i].SymptomAvgs = map[string]float64{
				"Q9":  3,
				"Q1":  2,
				"Q15": 1,
			}
		}

		got := detection.Analyze(history, detection.Policy{})

		want := []string{"Suicidal Thoughts or Wishes", "Sadness", "Loss of Energy"}
		if len(got.TopSymptoms) != 3 {
			t.Fatalf("top symptoms = %v, want 3 entries", got.TopSymptoms)
		}
		for i, name := range want {
			if got.TopSymptoms[i] != name {
				t.Errorf("top[%d] = %s, want %s", i, got.TopSymptoms[i], name)
			}
		}
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		got := detection.Analyze(daily(repeat(0, 10)...), detection.Policy{})

		want := []string{"Sadness", "Pessimism", "Past Failure"}
		for i, name := range want {
			if got.TopSymptoms[i] != name {
				t.Errorf("top[%d] = %s, want %s", i, got.TopSymptoms[i], name)
			}
		}
	})
}

func TestAnalyzeConfidenceTiers(t *testing.T) {
	cases := []struct {
		sessions int
		want     detection.Confidence
	}{
		{9, detection.ConfidenceLow},
		{10, detection.ConfidenceMedium},
		{19, detection.ConfidenceMedium},
		{20, detection.ConfidenceHigh},
	}

	for _, tc := range cases {
		got := detection.Analyze(daily(repeat(5, tc.sessions)...), detection.Policy{})
		if got.Confidence != tc.want {
			t.Errorf("confidence with %d sessions = %v, want %v", tc.sessions, got.Confidence, tc.want)
		}
	}
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	got := detection.Analyze(nil, detection.Policy{})

	if got.Detected {
		t.Error("detected = true, want false")
	}
	if got.Severity != scoring.SeverityMinimal {
		t.Errorf("severity = %v, want %v", got.Severity, scoring.SeverityMinimal)
	}
	if got.Trend != detection.TrendStable {
		t.Errorf("trend = %v, want %v", got.Trend, detection.TrendStable)
	}
	if got.Confidence != detection.ConfidenceLow {
		t.Errorf("confidence = %v, want %v", got.Confidence, detection.ConfidenceLow)
	}
	if got.SessionsUsed != 0 || got.TimeSpanDays != 0 {
		t.Errorf("usage = %d/%d, want 0/0", got.SessionsUsed, got.TimeSpanDays)
	}
	if got.TopSymptoms == nil || len(got.TopSymptoms) != 0 {
		t.Errorf("top symptoms = %v, want empty", got.TopSymptoms)
	}
	if !strings.Contains(got.Explanation, "Keep journaling") {
		t.Errorf("explanation = %q, want no-data variant", got.Explanation)
	}
}

func TestAnalyzeCustomPolicy(t *testing.T) {
	// Lowering the gate and the streak makes a three session run enough.
	policy := detection.Policy{MinSessions: 3, StreakMin: 3}
	history := daily(15, 15, 15)

	got := detection.Analyze(history, policy)

	if !got.Detected {
		t.Error("detected = false, want true under relaxed policy")
	}
}

func TestAssessReadiness(t *testing.T) {
	now := anchor

	t.Run("dense history is ready", func(t *testing.T) {
		// Two sessions on each of five recent days.
		history := make([]sessions.Session, 0, 10)
		for day := 1; day <= 5; day++ {
			at := now.AddDate(0, 0, -day)
			history = append(history,
				sessions.Session{Timestamp: at},
				sessions.Session{Timestamp: at.Add(2 * time.Hour)},
			)
		}

		got := detection.AssessReadiness(history, detection.Policy{}, now)

		if !got.Ready {
			t.Errorf("ready = false, want true (%+v)", got)
		}
		if got.Sessions != 10 || got.DistinctDays != 5 {
			t.Errorf("sessions/days = %d/%d, want 10/5", got.Sessions, got.DistinctDays)
		}
		if got.Message != "" {
			t.Errorf("message = %q, want empty", got.Message)
		}
	})

	t.Run("single day burst is not ready", func(t *testing.T) {
		at := now.AddDate(0, 0, -1)
		history := make([]sessions.Session, 10)
		for i := range history {
			history[i] = sessions.Session{Timestamp: at.Add(time.Duration(i) * time.Minute)}
		}

		got := detection.AssessReadiness(history, detection.Policy{}, now)

		if got.Ready {
			t.Error("ready = true, want false for one distinct day")
		}
		if got.DistinctDays != 1 {
			t.Errorf("distinct days = %d, want 1", got.DistinctDays)
		}
		if got.Message == "" {
			t.Error("message empty, want guidance")
		}
	})

	t.Run("old sessions fall outside the window", func(t *testing.T) {
		history := make([]sessions.Session, 10)
		for i := range history {
			history[i] = sessions.Session{Timestamp: now.AddDate(0, 0, -40-i)}
		}

		got := detection.AssessReadiness(history, detection.Policy{}, now)

		if got.Ready || got.Sessions != 0 {
			t.Errorf("ready/sessions = %v/%d, want false/0", got.Ready, got.Sessions)
		}
	})
}

func TestPolicyFinalize(t *testing.T) {
	t.Run("zero value gets defaults", func(t *testing.T) {
		p := detection.Policy{}.Finalize()

		if p.MinSessions != detection.DefaultMinSessions {
			t.Errorf("min sessions = %d, want %d", p.MinSessions, detection.DefaultMinSessions)
		}
		if p.WindowDays != detection.DefaultWindowDays {
			t.Errorf("window days = %d, want %d", p.WindowDays, detection.DefaultWindowDays)
		}
		if p.MildThreshold != detection.DefaultMildThreshold {
			t.Errorf("mild threshold = %v, want %v", p.MildThreshold, detection.DefaultMildThreshold)
		}
		if p.Proportion != detection.DefaultProportion {
			t.Errorf("proportion = %v, want %v", p.Proportion, detection.DefaultProportion)
		}
		if p.HighConfidenceAt != detection.DefaultHighConfidenceAt {
			t.Errorf("high confidence = %d, want %d", p.HighConfidenceAt, detection.DefaultHighConfidenceAt)
		}
	})

	t.Run("set fields survive", func(t *testing.T) {
		p := detection.Policy{MinSessions: 3, StreakMin: 2}.Finalize()

		if p.MinSessions != 3 || p.StreakMin != 2 {
			t.Errorf("overrides lost: %+v", p)
		}
		if p.WindowDays != detection.DefaultWindowDays {
			t.Errorf("window days = %d, want default %d", p.WindowDays, detection.DefaultWindowDays)
		}
	})
}
