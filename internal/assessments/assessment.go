// Package assessments implements the symptom assessment domain for Barometer.
// It runs the analysis pipeline over journal entries: claiming an entry,
// scoring the 21 depression symptoms through the assessor, reading sentiment,
// and persisting the derived rows alongside the entry's status transition.
package assessments

import (
	"time"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/internal/sentiment"
)

// Assessment represents a stored symptom assessment for a journal entry.
// Scores always carries the full 21-symptom map; Total and Severity are
// denormalized from it for querying.
type Assessment struct {
	ID        uuid.UUID             `json:"id"`
	EntryID   uuid.UUID             `json:"entry_id"`
	Scores    scoring.SymptomScores `json:"scores"`
	Total     int                   `json:"total"`
	Severity  scoring.Severity      `json:"severity"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// SentimentReading represents the stored sentiment for a journal entry,
// produced by the same pipeline run as its assessment.
type SentimentReading struct {
	ID           uuid.UUID              `json:"id"`
	EntryID      uuid.UUID              `json:"entry_id"`
	Label        sentiment.Label        `json:"label"`
	Distribution sentiment.Distribution `json:"distribution"`
	CreatedAt    time.Time              `json:"created_at"`
}
