// Package entries implements the journal entry domain for Barometer.
// It provides types, data access, and business logic for typed entries,
// bulk imports with their batches, and the analysis status machine that
// guards each entry through the assessment pipeline.
package entries

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes how an entry reached the journal.
type Kind string

// Valid entry kinds.
const (
	KindTyped    Kind = "typed"
	KindImported Kind = "imported"
)

// Status is the analysis state of an entry. The machine runs
// pending -> processing -> completed | failed; failed entries may be
// claimed again for reprocessing.
type Status string

// Valid analysis states.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Entry represents one journal entry with its analysis state. Version is
// the optimistic lock counter bumped on every mutation; claims for
// processing must present the version they read.
type Entry struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Kind        Kind       `json:"kind"`
	BatchID     *uuid.UUID `json:"batch_id,omitempty"`
	Content     string     `json:"content"`
	RecordedAt  time.Time  `json:"recorded_at"`
	Status      Status     `json:"status"`
	StatusError *string    `json:"status_error,omitempty"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ImportBatch groups the entries created by one bulk import. CreatedAt is
// the batch's processing timestamp, which session aggregation uses as the
// single timestamp for the whole batch.
type ImportBatch struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Filename   string    `json:"filename"`
	StorageKey string    `json:"storage_key"`
	EntryCount int       `json:"entry_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCommand carries the data for a typed entry. A zero RecordedAt is
// stamped with the current time.
type CreateCommand struct {
	OwnerID    uuid.UUID `json:"owner_id"`
	Content    string    `json:"content"`
	RecordedAt time.Time `json:"recorded_at"`
}

// UpdateCommand replaces an entry's text. The update resets the analysis
// state to pending and discards any derived assessment and sentiment rows,
// so the entry is re-scored wholesale on its next pipeline run.
type UpdateCommand struct {
	Content string `json:"content"`
}

// ImportMessage is one message inside a bulk import payload.
type ImportMessage struct {
	Content    string    `json:"content"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ImportCommand registers a bulk import: the parsed messages become
// imported entries under a fresh batch, and Raw is archived to blob
// storage as the original upload payload.
type ImportCommand struct {
	OwnerID  uuid.UUID       `json:"owner_id"`
	Filename string          `json:"filename"`
	Messages []ImportMessage `json:"messages"`
	Raw      []byte          `json:"-"`
}

// ImportResult reports a completed import registration.
type ImportResult struct {
	Batch   ImportBatch `json:"batch"`
	Entries []Entry     `json:"entries"`
}

// importWordCap bounds how much imported text is kept per batch, counted
// across messages from most recent backwards.
const importWordCap = 800

// limitMessages keeps the most recent messages whose cumulative word count
// stays within the cap, preserving chronological order in the result. A
// single over-long message is kept rather than dropping everything.
func limitMessages(messages []ImportMessage, cap int) []ImportMessage {
	total := 0
	kept := make([]ImportMessage, 0, len(messages))

	for i := len(messages) - 1; i >= 0; i-- {
		words := len(strings.Fields(messages[i].Content))
		if total+words > cap && len(kept) > 0 {
			break
		}
		kept = append(kept, messages[i])
		total += words
		if total >= cap {
			break
		}
	}

	// Reverse back to chronological order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}
