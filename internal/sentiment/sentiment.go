// Package sentiment defines the sentiment analysis contract used alongside
// symptom assessment. The analyzer is a black box that labels a text as
// Positive, Neutral, or Negative with a probability distribution; the
// bundled implementation rides the same completion service as the assessor
// using structured JSON output.
package sentiment

import (
	"context"
	"slices"
)

// Label is a sentiment classification.
type Label string

// Valid sentiment labels.
const (
	LabelPositive Label = "Positive"
	LabelNeutral  Label = "Neutral"
	LabelNegative Label = "Negative"
)

var labels = []Label{LabelPositive, LabelNeutral, LabelNegative}

// Valid reports whether the label is one of the three known values.
func (l Label) Valid() bool {
	return slices.Contains(labels, l)
}

// Distribution is the probability mass assigned to each label.
type Distribution struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Prediction is the analyzer output for one text.
type Prediction struct {
	Label        Label        `json:"label"`
	Distribution Distribution `json:"distribution"`
}

// Analyzer classifies the overall sentiment of a text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Prediction, error)
}

// Average combines per-chunk distributions by arithmetic mean. An empty
// input yields the zero distribution.
func Average(ds []Distribution) Distribution {
	if len(ds) == 0 {
		return Distribution{}
	}

	var sum Distribution
	for _, d := range ds {
		sum.Positive += d.Positive
		sum.Neutral += d.Neutral
		sum.Negative += d.Negative
	}
	n := float64(len(ds))
	return Distribution{
		Positive: sum.Positive / n,
		Neutral:  sum.Neutral / n,
		Negative: sum.Negative / n,
	}
}

// LabelFor picks the dominant label of a distribution. Positive and
// Neutral win only when strictly greatest; anything else, including ties,
// resolves to Negative.
func LabelFor(d Distribution) Label {
	switch {
	case d.Positive > d.Neutral && d.Positive > d.Negative:
		return LabelPositive
	case d.Neutral > d.Positive && d.Neutral > d.Negative:
		return LabelNeutral
	default:
		return LabelNegative
	}
}

// ModeLabel returns the most frequent valid label. Ties that include
// Neutral resolve to Neutral; other ties resolve to the lexicographically
// first tied label. An input with no valid labels yields Neutral.
func ModeLabel(in []Label) Label {
	counts := make(map[Label]int, len(labels))
	for _, l := range in {
		if l.Valid() {
			counts[l]++
		}
	}
	if len(counts) == 0 {
		return LabelNeutral
	}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	tied := make([]Label, 0, len(labels))
	for _, l := range []Label{LabelNegative, LabelNeutral, LabelPositive} {
		if counts[l] == max {
			tied = append(tied, l)
		}
	}
	if len(tied) > 1 && slices.Contains(tied, LabelNeutral) {
		return LabelNeutral
	}
	return tied[0]
}
