package sessions

import (
	"encoding/json"
	"fmt"

	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/pkg/query"
	"github.com/barometerhq/barometer/pkg/repository"
)

// analyzedProjection joins entries with their derived rows. The inner join
// on assessments restricts results to completed entries, since derived rows
// exist only after a successful pipeline run.
var analyzedProjection = query.NewProjectionMap("public", "journal_entries", "e").
	Project("id", "EntryID").
	Project("owner_id", "OwnerID").
	Project("kind", "Kind").
	Project("batch_id", "BatchID").
	Project("recorded_at", "RecordedAt").
	Join("public", "assessments", "a", "INNER JOIN", "a.entry_id = e.id").
	Project("scores", "Scores").
	Project("total", "Total").
	Join("public", "sentiment_readings", "s", "LEFT JOIN", "s.entry_id = e.id").
	Project("label", "Sentiment").
	Join("public", "import_batches", "b", "LEFT JOIN", "b.id = e.batch_id").
	Project("created_at", "BatchCreatedAt")

var defaultSort = query.SortField{Field: "RecordedAt"}

func scanAnalyzed(s repository.Scanner) (AnalyzedEntry, error) {
	var (
		e         AnalyzedEntry
		scoresRaw []byte
	)

	err := s.Scan(
		&e.EntryID,
		&e.OwnerID,
		&e.Kind,
		&e.BatchID,
		&e.RecordedAt,
		&scoresRaw,
		&e.Total,
		&e.Sentiment,
		&e.BatchCreatedAt,
	)
	if err != nil {
		return e, err
	}

	if len(scoresRaw) > 0 {
		if err := json.Unmarshal(scoresRaw, &e.Scores); err != nil {
			return e, fmt.Errorf("unmarshal scores: %w", err)
		}
	}
	if e.Scores == nil {
		e.Scores = scoring.Default()
	}

	return e, nil
}
