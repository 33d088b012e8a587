package assessments

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/pkg/query"
	"github.com/barometerhq/barometer/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "assessments", "a").
	Project("id", "ID").
	Project("entry_id", "EntryID").
	Project("scores", "Scores").
	Project("total", "Total").
	Project("severity", "Severity").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var sentimentProjection = query.
	NewProjectionMap("public", "sentiment_readings", "s").
	Project("id", "ID").
	Project("entry_id", "EntryID").
	Project("label", "Label").
	Project("positive", "Positive").
	Project("neutral", "Neutral").
	Project("negative", "Negative").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for assessment queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	EntryID  *uuid.UUID `json:"entry_id,omitempty"`
	Severity *string    `json:"severity,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("EntryID", f.EntryID).
		WhereEquals("Severity", f.Severity)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if e := values.Get("entry_id"); e != "" {
		if id, err := uuid.Parse(e); err == nil {
			f.EntryID = &id
		}
	}

	if s := values.Get("severity"); s != "" {
		f.Severity = &s
	}

	return f
}

func scanAssessment(s repository.Scanner) (Assessment, error) {
	var a Assessment
	var scoresRaw []byte

	err := s.Scan(
		&a.ID,
		&a.EntryID,
		&scoresRaw,
		&a.Total,
		&a.Severity,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		return a, err
	}

	if len(scoresRaw) > 0 {
		if err := json.Unmarshal(scoresRaw, &a.Scores); err != nil {
			return a, fmt.Errorf("unmarshal scores: %w", err)
		}
	}

	if a.Scores == nil {
		a.Scores = scoring.Default()
	}

	return a, nil
}

func scanReading(s repository.Scanner) (SentimentReading, error) {
	var r SentimentReading
	err := s.Scan(
		&r.ID,
		&r.EntryID,
		&r.Label,
		&r.Distribution.Positive,
		&r.Distribution.Neutral,
		&r.Distribution.Negative,
		&r.CreatedAt,
	)
	return r, err
}
