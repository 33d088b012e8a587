package scoring

// Severity is the banded classification of a total score.
type Severity string

// Severity bands over the total score range. Totals outside [0, MaxTotal]
// classify as SeverityUnknown rather than being forced into a band.
const (
	SeverityMinimal  Severity = "Minimal"
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
	SeverityUnknown  Severity = "Unknown"
)

// SeverityFor maps a total score to its band: Minimal below 10, Mild below
// 19, Moderate below 30, Severe through MaxTotal. Accepts a float so
// averaged totals band without premature truncation.
func SeverityFor(total float64) Severity {
	switch {
	case total < 0 || total > MaxTotal:
		return SeverityUnknown
	case total < 10:
		return SeverityMinimal
	case total < 19:
		return SeverityMild
	case total < 30:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// Description returns the user-facing summary for a band.
func (s Severity) Description() string {
	switch s {
	case SeverityMinimal:
		return "These ups and downs are considered normal."
	case SeverityMild:
		return "Mild mood disturbance. Consider monitoring your mood."
	case SeverityModerate:
		return "Moderate depression. Professional support recommended."
	case SeveritySevere:
		return "Severe depression. Please seek professional help."
	default:
		return "Unable to determine category."
	}
}
