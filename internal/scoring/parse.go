package scoring

import (
	"strconv"
	"strings"
)

// Parse extracts a full score map from a batch completion in the tagged
// line format (Q1_LEVEL: / Q1_REASON: .. Q21_LEVEL: / Q21_REASON:).
//
// The scan is line oriented and tolerant: unrecognized lines are skipped,
// an unparseable or out-of-range level resolves to level zero, repeated
// tags overwrite earlier values, and any symptom absent from the response
// is backfilled with the not-assessed default. Parse never fails; the
// result always carries all 21 catalog entries.
func Parse(raw string) SymptomScores {
	levels := make(map[string]int)
	reasons := make(map[string]string)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, sym := range catalog {
			if rest, ok := strings.CutPrefix(line, sym.ID+"_LEVEL:"); ok {
				level := MinLevel
				if v, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil && v >= MinLevel && v <= MaxLevel {
					level = v
				}
				levels[sym.ID] = level
				break
			}
			if rest, ok := strings.CutPrefix(line, sym.ID+"_REASON:"); ok {
				reasons[sym.ID] = strings.TrimSpace(rest)
				break
			}
		}
	}

	scores := make(SymptomScores, SymptomCount)
	for _, sym := range catalog {
		score := SymptomScore{Level: MinLevel, Reason: DefaultReason}
		if v, ok := levels[sym.ID]; ok {
			score.Level = v
		}
		if r, ok := reasons[sym.ID]; ok {
			score.Reason = r
		}
		scores[sym.ID] = score
	}
	return scores
}

// ParseSingle reads a single-symptom completion in the bare LEVEL / REASON
// tag format used by the per-symptom fallback path. The boolean reports
// whether a usable level was found; levels outside [MinLevel, MaxLevel]
// are discarded rather than clamped, so the caller records the symptom as
// not assessed.
func ParseSingle(raw string) (SymptomScore, bool) {
	var (
		level  *int
		reason string
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if rest, ok := strings.CutPrefix(line, "LEVEL:"); ok {
			if v, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
				level = &v
			}
		} else if rest, ok := strings.CutPrefix(line, "REASON:"); ok {
			reason = strings.TrimSpace(rest)
		}
	}

	if level == nil || *level < MinLevel || *level > MaxLevel {
		return SymptomScore{Level: MinLevel, Reason: DefaultReason}, false
	}
	if reason == "" {
		reason = DefaultReason
	}
	return SymptomScore{Level: *level, Reason: reason}, true
}
