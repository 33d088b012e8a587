// Package sessions implements session aggregation for Barometer. A session
// is the atomic unit of trend analysis: one typed journal entry, or one
// import batch collapsed to a single averaged observation so a bulk upload
// counts as one moment in time rather than inflating history.
package sessions

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/internal/entries"
	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/internal/sentiment"
)

// AnalyzedEntry is one completed entry joined with its assessment and
// sentiment rows. Sentiment is nil when no reading was stored, and
// BatchCreatedAt is nil for typed entries.
type AnalyzedEntry struct {
	EntryID        uuid.UUID
	OwnerID        uuid.UUID
	Kind           entries.Kind
	BatchID        *uuid.UUID
	RecordedAt     time.Time
	BatchCreatedAt *time.Time
	Scores         scoring.SymptomScores
	Total          int
	Sentiment      *sentiment.Label
}

// Session is one collapsed observation. Severity is recomputed from the
// averaged total, not carried over from any member assessment.
type Session struct {
	OwnerID     uuid.UUID          `json:"owner_id"`
	Kind        entries.Kind       `json:"kind"`
	BatchID     *uuid.UUID         `json:"batch_id,omitempty"`
	EntryIDs    []uuid.UUID        `json:"entry_ids"`
	Timestamp   time.Time          `json:"timestamp"`
	AvgTotal    float64            `json:"avg_total_score"`
	Severity    scoring.Severity   `json:"severity"`
	Sentiment   sentiment.Label    `json:"dominant_sentiment"`
	SymptomAvgs map[string]float64 `json:"symptom_averages"`
	MemberCount int                `json:"member_count"`
}

// Collapse groups analyzed entries into sessions in chronological order.
// Typed entries map one to one; imported entries group by batch identifier,
// with the batch's processing timestamp as the session timestamp. Entries
// from distinct batches never share a session.
func Collapse(rows []AnalyzedEntry) []Session {
	grouped := make(map[uuid.UUID][]AnalyzedEntry)
	var order []uuid.UUID

	for _, row := range rows {
		key := row.EntryID
		if row.Kind == entries.KindImported && row.BatchID != nil {
			key = *row.BatchID
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], row)
	}

	sessions := make([]Session, 0, len(order))
	for _, key := range order {
		sessions = append(sessions, collapseGroup(grouped[key]))
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.Before(sessions[j].Timestamp)
	})

	return sessions
}

func collapseGroup(members []AnalyzedEntry) Session {
	first := members[0]

	s := Session{
		OwnerID:     first.OwnerID,
		Kind:        first.Kind,
		BatchID:     first.BatchID,
		EntryIDs:    make([]uuid.UUID, 0, len(members)),
		Timestamp:   sessionTimestamp(members),
		SymptomAvgs: make(map[string]float64, scoring.SymptomCount),
		MemberCount: len(members),
	}

	var totalSum float64
	labels := make([]sentiment.Label, 0, len(members))

	for _, m := range members {
		s.EntryIDs = append(s.EntryIDs, m.EntryID)
		totalSum += float64(m.Total)
		if m.Sentiment != nil {
			labels = append(labels, *m.Sentiment)
		}
		for _, sym := range scoring.Symptoms() {
			s.SymptomAvgs[sym.ID] += float64(m.Scores[sym.ID].Level)
		}
	}

	n := float64(len(members))
	s.AvgTotal = totalSum / n
	for id := range s.SymptomAvgs {
		s.SymptomAvgs[id] /= n
	}

	s.Severity = scoring.SeverityFor(s.AvgTotal)
	s.Sentiment = sentiment.ModeLabel(labels)

	return s
}

// sessionTimestamp picks the batch's processing timestamp when present,
// falling back to the latest member timestamp.
func sessionTimestamp(members []AnalyzedEntry) time.Time {
	if members[0].BatchCreatedAt != nil {
		return *members[0].BatchCreatedAt
	}

	latest := members[0].RecordedAt
	for _, m := range members[1:] {
		if m.RecordedAt.After(latest) {
			latest = m.RecordedAt
		}
	}
	return latest
}

// Window filters sessions to the trailing days window ending at now.
// A non-positive days returns the input unchanged.
func Window(sessions []Session, days int, now time.Time) []Session {
	if days <= 0 {
		return sessions
	}

	cutoff := now.AddDate(0, 0, -days)
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if !s.Timestamp.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// DistinctDays counts the distinct UTC calendar days covered by sessions.
func DistinctDays(sessions []Session) int {
	days := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		days[s.Timestamp.UTC().Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}
