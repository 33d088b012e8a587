package entries

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/pkg/query"
	"github.com/barometerhq/barometer/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "journal_entries", "e").
	Project("id", "ID").
	Project("owner_id", "OwnerID").
	Project("kind", "Kind").
	Project("batch_id", "BatchID").
	Project("content", "Content").
	Project("recorded_at", "RecordedAt").
	Project("status", "Status").
	Project("status_error", "StatusError").
	Project("version", "Version").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var batchProjection = query.
	NewProjectionMap("public", "import_batches", "b").
	Project("id", "ID").
	Project("owner_id", "OwnerID").
	Project("filename", "Filename").
	Project("storage_key", "StorageKey").
	Project("entry_count", "EntryCount").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "RecordedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for entry queries.
// Nil fields are ignored; all matches are exact.
type Filters struct {
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	Kind    *string    `json:"kind,omitempty"`
	Status  *string    `json:"status,omitempty"`
	BatchID *uuid.UUID `json:"batch_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("OwnerID", f.OwnerID).
		WhereEquals("Kind", f.Kind).
		WhereEquals("Status", f.Status).
		WhereEquals("BatchID", f.BatchID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if o := values.Get("owner_id"); o != "" {
		if v, err := uuid.Parse(o); err == nil {
			f.OwnerID = &v
		}
	}

	if k := values.Get("kind"); k != "" {
		f.Kind = &k
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if b := values.Get("batch_id"); b != "" {
		if v, err := uuid.Parse(b); err == nil {
			f.BatchID = &v
		}
	}

	return f
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Kind,
		&e.BatchID,
		&e.Content,
		&e.RecordedAt,
		&e.Status,
		&e.StatusError,
		&e.Version,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func scanBatch(s repository.Scanner) (ImportBatch, error) {
	var b ImportBatch
	err := s.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Filename,
		&b.StorageKey,
		&b.EntryCount,
		&b.CreatedAt,
	)
	return b, err
}
