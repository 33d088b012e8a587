package scoring

import (
	"fmt"
	"math"
)

// Level bounds and the total score ceiling.
const (
	MinLevel = 0
	MaxLevel = 3
	MaxTotal = 63
)

// DefaultReason marks a symptom that could not be assessed from the text.
const DefaultReason = "Unable to assess"

// SymptomScore is the assessed level for one symptom with the model's
// stated justification.
type SymptomScore struct {
	Level  int    `json:"level"`
	Reason string `json:"reason"`
}

// SymptomScores maps symptom identifiers to their assessed scores. A valid
// map always carries all SymptomCount catalog entries.
type SymptomScores map[string]SymptomScore

// Default returns a fully populated score map with every symptom at level
// zero and the not-assessed reason.
func Default() SymptomScores {
	scores := make(SymptomScores, SymptomCount)
	for _, sym := range catalog {
		scores[sym.ID] = SymptomScore{Level: MinLevel, Reason: DefaultReason}
	}
	return scores
}

// Fill backfills any catalog entries missing from the map with the level
// zero default so the result always carries all 21 symptoms.
func (s SymptomScores) Fill() SymptomScores {
	for _, sym := range catalog {
		if _, ok := s[sym.ID]; !ok {
			s[sym.ID] = SymptomScore{Level: MinLevel, Reason: DefaultReason}
		}
	}
	return s
}

// Total sums the assessed levels, clamped to [0, MaxTotal].
func (s SymptomScores) Total() int {
	total := 0
	for _, score := range s {
		total += score.Level
	}
	if total < 0 {
		return 0
	}
	if total > MaxTotal {
		return MaxTotal
	}
	return total
}

// Combine merges per-chunk score maps into a single map by averaging each
// symptom's level across chunks and rounding to the nearest level. With a
// single input the original reasons survive; with more, each reason records
// how many parts contributed. An empty input yields the default map.
func Combine(results []SymptomScores) SymptomScores {
	switch len(results) {
	case 0:
		return Default()
	case 1:
		return results[0].Fill()
	}

	combined := make(SymptomScores, SymptomCount)
	for _, sym := range catalog {
		sum := 0
		for _, r := range results {
			sum += r[sym.ID].Level
		}
		combined[sym.ID] = SymptomScore{
			Level:  int(math.Round(float64(sum) / float64(len(results)))),
			Reason: fmt.Sprintf("Aggregated from %d part(s)", len(results)),
		}
	}
	return combined
}

// Scorecard summarizes a score map: the clamped total, its severity band,
// and the symptom names grouped by reported level.
type Scorecard struct {
	Total     int       `json:"total"`
	Severity  Severity  `json:"severity"`
	Breakdown Breakdown `json:"breakdown"`
}

// Breakdown groups symptom display names by their assessed level. Level
// zero symptoms are omitted; Present counts the symptoms listed.
type Breakdown struct {
	Severe   []string `json:"severe"`
	Moderate []string `json:"moderate"`
	Mild     []string `json:"mild"`
	Present  int      `json:"present"`
}

// ComputeScorecard derives the summary view of a score map.
func ComputeScorecard(scores SymptomScores) Scorecard {
	breakdown := Breakdown{
		Severe:   []string{},
		Moderate: []string{},
		Mild:     []string{},
	}

	for _, sym := range catalog {
		switch scores[sym.ID].Level {
		case 3:
			breakdown.Severe = append(breakdown.Severe, sym.Name)
		case 2:
			breakdown.Moderate = append(breakdown.Moderate, sym.Name)
		case 1:
			breakdown.Mild = append(breakdown.Mild, sym.Name)
		}
	}
	breakdown.Present = len(breakdown.Severe) + len(breakdown.Moderate) + len(breakdown.Mild)

	total := scores.Total()
	return Scorecard{
		Total:     total,
		Severity:  SeverityFor(float64(total)),
		Breakdown: breakdown,
	}
}
