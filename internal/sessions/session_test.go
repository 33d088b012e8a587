package sessions_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/internal/entries"
	"github.com/barometerhq/barometer/internal/scoring"
	"github.com/barometerhq/barometer/internal/sentiment"
	"github.com/barometerhq/barometer/internal/sessions"
)

var testOwner = uuid.MustParse("0f0e6c59-da10-4c3e-9e3b-8f2f4a1c9d11")

func uniform(level int) scoring.SymptomScores {
	s := scoring.Default()
	for id, sc := range s {
		sc.Level = level
		s[id] = sc
	}
	return s
}

func lbl(l sentiment.Label) *sentiment.Label {
	return &l
}

func typed(level int, at time.Time, label *sentiment.Label) sessions.AnalyzedEntry {
	return sessions.AnalyzedEntry{
		EntryID:    uuid.New(),
		OwnerID:    testOwner,
		Kind:       entries.KindTyped,
		RecordedAt: at,
		Scores:     uniform(level),
		Total:      level * scoring.SymptomCount,
		Sentiment:  label,
	}
}

func imported(level int, at time.Time, batchID uuid.UUID, batchAt time.Time, label *sentiment.Label) sessions.AnalyzedEntry {
	e := typed(level, at, label)
	e.Kind = entries.KindImported
	e.BatchID = &batchID
	e.BatchCreatedAt = &batchAt
	return e
}

func TestCollapseTypedEntries(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	rows := []sessions.AnalyzedEntry{
		typed(2, base.Add(24*time.Hour), lbl(sentiment.LabelNeutral)),
		typed(1, base, lbl(sentiment.LabelNegative)),
	}

	got := sessions.Collapse(rows)

	if len(got) != 2 {
		t.Fatalf("sessions = %d, want 2", len(got))
	}
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("first timestamp = %v, want %v", got[0].Timestamp, base)
	}
	if got[0].AvgTotal != 21 {
		t.Errorf("first avg = %v, want 21", got[0].AvgTotal)
	}
	if got[0].Severity != scoring.SeverityModerate {
		t.Errorf("first severity = %v, want %v", got[0].Severity, scoring.SeverityModerate)
	}
	if got[0].Sentiment != sentiment.LabelNegative {
		t.Errorf("first sentiment = %v, want %v", got[0].Sentiment, sentiment.LabelNegative)
	}
	if got[0].MemberCount != 1 || len(got[0].EntryIDs) != 1 {
		t.Errorf("first members = %d/%d, want 1/1", got[0].MemberCount, len(got[0].EntryIDs))
	}
	if got[1].AvgTotal != 42 {
		t.Errorf("second avg = %v, want 42", got[1].AvgTotal)
	}
	if got[1].Severity != scoring.SeveritySevere {
		t.Errorf("second severity = %v, want %v", got[1].Severity, scoring.SeveritySevere)
	}
}

func TestCollapseBatchAveragesMembers(t *testing.T) {
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	batchID := uuid.MustParse("91f1a3c2-5b7e-4f0d-8a9b-2c4d6e8f0a1b")
	batchAt := base.Add(72 * time.Hour)

	// Members recorded across three separate days still form one session.
	rows := []sessions.AnalyzedEntry{
		imported(0, base, batchID, batchAt, lbl(sentiment.LabelNegative)),
		imported(1, base.Add(24*time.Hour), batchID, batchAt, lbl(sentiment.LabelNegative)),
		imported(2, base.Add(48*time.Hour), batchID, batchAt, lbl(sentiment.LabelPositive)),
	}

	got := sessions.Collapse(rows)

	if len(got) != 1 {
		t.Fatalf("sessions = %d, want 1", len(got))
	}

	s := got[0]
	if s.MemberCount != 3 || len(s.EntryIDs) != 3 {
		t.Errorf("members = %d/%d, want 3/3", s.MemberCount, len(s.EntryIDs))
	}
	if s.AvgTotal != 21 {
		t.Errorf("avg = %v, want 21", s.AvgTotal)
	}
	if s.Severity != scoring.SeverityModerate {
		t.Errorf("severity = %v, want %v", s.Severity, scoring.SeverityModerate)
	}
	if !s.Timestamp.Equal(batchAt) {
		t.Errorf("timestamp = %v, want batch time %v", s.Timestamp, batchAt)
	}
	if s.BatchID == nil || *s.BatchID != batchID {
		t.Errorf("batch id = %v, want %v", s.BatchID, batchID)
	}
	if s.Kind != entries.KindImported {
		t.Errorf("kind = %v, want %v", s.Kind, entries.KindImported)
	}
	if s.Sentiment != sentiment.LabelNegative {
		t.Errorf("sentiment = %v, want %v", s.Sentiment, sentiment.LabelNegative)
	}
	for _, sym := range scoring.Symptoms() {
		if s.SymptomAvgs[sym.ID] != 1 {
			t.Errorf("symptom %s avg = %v, want 1", sym.ID, s.SymptomAvgs[sym.ID])
		}
	}
	if days := sessions.DistinctDays(got); days != 1 {
		t.Errorf("distinct days = %d, want 1", days)
	}
}

func TestCollapseIdenticalScores(t *testing.T) {
	base := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	batchID := uuid.New()

	rows := make([]sessions.AnalyzedEntry, 0, 4)
	for i := range 4 {
		rows = append(rows, imported(1, base.Add(time.Duration(i)*time.Hour), batchID, base, lbl(sentiment.LabelNeutral)))
	}

	got := sessions.Collapse(rows)

	if len(got) != 1 {
		t.Fatalf("sessions = %d, want 1", len(got))
	}
	if got[0].AvgTotal != 21 {
		t.Errorf("avg of identical totals = %v, want 21", got[0].AvgTotal)
	}
	for _, sym := range scoring.Symptoms() {
		if got[0].SymptomAvgs[sym.ID] != 1 {
			t.Errorf("symptom %s avg = %v, want 1", sym.ID, got[0].SymptomAvgs[sym.ID])
		}
	}
}

func TestCollapseDistinctBatchesNeverBlend(t *testing.T) {
	base := time.Date(2026, 4, 3, 8, 0, 0, 0, time.UTC)
	batchA := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	batchB := uuid.MustParse("22222222-2222-4222-8222-222222222222")

	rows := []sessions.AnalyzedEntry{
		imported(0, base, batchA, base, nil),
		imported(2, base, batchB, base.Add(time.Hour), nil),
		imported(0, base, batchA, base, nil),
		imported(2, base, batchB, base.Add(time.Hour), nil),
	}

	got := sessions.Collapse(rows)

	if len(got) != 2 {
		t.Fatalf("sessions = %d, want 2", len(got))
	}
	if *got[0].BatchID != batchA || *got[1].BatchID != batchB {
		t.Errorf("batch ids = %v, %v; want %v, %v", got[0].BatchID, got[1].BatchID, batchA, batchB)
	}
	if got[0].MemberCount != 2 || got[1].MemberCount != 2 {
		t.Errorf("member counts = %d, %d; want 2, 2", got[0].MemberCount, got[1].MemberCount)
	}
	if got[0].AvgTotal != 0 || got[1].AvgTotal != 42 {
		t.Errorf("averages = %v, %v; want 0, 42", got[0].AvgTotal, got[1].AvgTotal)
	}
}

func TestCollapseMixedKinds(t *testing.T) {
	base := time.Date(2026, 4, 4, 8, 0, 0, 0, time.UTC)
	batchID := uuid.New()

	rows := []sessions.AnalyzedEntry{
		typed(1, base.Add(time.Hour), nil),
		imported(2, base, batchID, base.Add(2*time.Hour), nil),
		imported(2, base, batchID, base.Add(2*time.Hour), nil),
		typed(0, base, nil),
	}

	got := sessions.Collapse(rows)

	if len(got) != 3 {
		t.Fatalf("sessions = %d, want 3", len(got))
	}
	wantKinds := []entries.Kind{entries.KindTyped, entries.KindTyped, entries.KindImported}
	for i, kind := range wantKinds {
		if got[i].Kind != kind {
			t.Errorf("session %d kind = %v, want %v", i, got[i].Kind, kind)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("sessions out of order at %d: %v before %v", i, got[i].Timestamp, got[i-1].Timestamp)
		}
	}
}

func TestCollapseImportedWithoutBatch(t *testing.T) {
	base := time.Date(2026, 4, 5, 8, 0, 0, 0, time.UTC)

	row := typed(1, base, nil)
	row.Kind = entries.KindImported

	got := sessions.Collapse([]sessions.AnalyzedEntry{row})

	if len(got) != 1 {
		t.Fatalf("sessions = %d, want 1", len(got))
	}
	if got[0].BatchID != nil {
		t.Errorf("batch id = %v, want nil", got[0].BatchID)
	}
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, base)
	}
}

func TestCollapseSentiment(t *testing.T) {
	base := time.Date(2026, 4, 6, 8, 0, 0, 0, time.UTC)
	batchID := uuid.New()

	t.Run("missing readings are ignored", func(t *testing.T) {
		rows := []sessions.AnalyzedEntry{
			imported(1, base, batchID, base, nil),
			imported(1, base, batchID, base, lbl(sentiment.LabelNegative)),
		}

		got := sessions.Collapse(rows)
		if got[0].Sentiment != sentiment.LabelNegative {
			t.Errorf("sentiment = %v, want %v", got[0].Sentiment, sentiment.LabelNegative)
		}
	})

	t.Run("no readings defaults to neutral", func(t *testing.T) {
		rows := []sessions.AnalyzedEntry{
			imported(1, base, batchID, base, nil),
			imported(1, base, batchID, base, nil),
		}

		got := sessions.Collapse(rows)
		if got[0].Sentiment != sentiment.LabelNeutral {
			t.Errorf("sentiment = %v, want %v", got[0].Sentiment, sentiment.LabelNeutral)
		}
	})
}

func TestCollapseEmpty(t *testing.T) {
	if got := sessions.Collapse(nil); len(got) != 0 {
		t.Errorf("sessions = %d, want 0", len(got))
	}
}

func TestWindow(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	ss := []sessions.Session{
		{Timestamp: now.AddDate(0, 0, -40)},
		{Timestamp: now.AddDate(0, 0, -30)},
		{Timestamp: now.AddDate(0, 0, -10)},
	}

	t.Run("trims to trailing window", func(t *testing.T) {
		got := sessions.Window(ss, 30, now)
		if len(got) != 2 {
			t.Fatalf("sessions = %d, want 2", len(got))
		}
		if !got[0].Timestamp.Equal(now.AddDate(0, 0, -30)) {
			t.Errorf("cutoff boundary session dropped")
		}
	})

	t.Run("zero days keeps everything", func(t *testing.T) {
		if got := sessions.Window(ss, 0, now); len(got) != 3 {
			t.Errorf("sessions = %d, want 3", len(got))
		}
	})
}

func TestDistinctDays(t *testing.T) {
	ss := []sessions.Session{
		{Timestamp: time.Date(2026, 4, 1, 23, 59, 0, 0, time.UTC)},
		{Timestamp: time.Date(2026, 4, 2, 0, 1, 0, 0, time.UTC)},
		{Timestamp: time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)},
	}

	if got := sessions.DistinctDays(ss); got != 2 {
		t.Errorf("distinct days = %d, want 2", got)
	}
	if got := sessions.DistinctDays(nil); got != 0 {
		t.Errorf("distinct days of empty = %d, want 0", got)
	}
}
