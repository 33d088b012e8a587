package assessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/barometerhq/barometer/internal/scoring"
)

type fakeClient struct {
	mu      sync.Mutex
	prompts []string
	respond func(call int, prompt string) (string, error)
}

func (f *fakeClient) Complete(_ context.Context, prompt string, _ Generation) (string, error) {
	f.mu.Lock()
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(call, prompt)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func isBatchPrompt(prompt string) bool {
	return strings.Contains(prompt, "Symptoms to assess:")
}

func fullBatchResponse(level int) string {
	var b strings.Builder
	for i := 1; i <= 21; i++ {
		fmt.Fprintf(&b, "Q%d_LEVEL: %d\nQ%d_REASON: noted\n", i, level, i)
	}
	return b.String()
}

func newTestOrchestrator(t *testing.T, client Client, opts Options) (*orchestrator, *[]time.Duration) {
	t.Helper()

	if opts.FallbackSpacing == 0 {
		opts.FallbackSpacing = time.Nanosecond
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := New(client, opts, logger).(*orchestrator)

	var mu sync.Mutex
	waits := &[]time.Duration{}
	o.sleep = func(_ context.Context, d time.Duration) error {
		mu.Lock()
		*waits = append(*waits, d)
		mu.Unlock()
		return nil
	}
	return o, waits
}

func TestAssessBatchSuccess(t *testing.T) {
	client := &fakeClient{
		respond: func(_ int, _ string) (string, error) {
			return fullBatchResponse(2), nil
		},
	}
	o, waits := newTestOrchestrator(t, client, Options{})

	scores, err := o.Assess(context.Background(), []string{"felt heavy today", "could not sleep"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if client.callCount() != 1 {
		t.Errorf("calls = %d, want 1", client.callCount())
	}
	if len(*waits) != 0 {
		t.Errorf("waits = %v, want none", *waits)
	}
	if len(scores) != scoring.SymptomCount {
		t.Fatalf("len(scores) = %d, want %d", len(scores), scoring.SymptomCount)
	}
	if got := scores["Q7"]; got.Level != 2 || got.Reason != "noted" {
		t.Errorf("Q7 = %+v, want level 2 reason noted", got)
	}
	if !isBatchPrompt(client.prompts[0]) {
		t.Error("first call should use the batch prompt")
	}
	if !strings.Contains(client.prompts[0], "felt heavy today could not sleep") {
		t.Error("batch prompt should join the input texts")
	}
}

func TestAssessBatchRetriesWithLinearBackoff(t *testing.T) {
	client := &fakeClient{
		respond: func(call int, _ string) (string, error) {
			if call < 2 {
				return "", errors.New("429 too many requests")
			}
			return fullBatchResponse(1), nil
		},
	}
	o, waits := newTestOrchestrator(t, client, Options{BackoffStep: 5 * time.Second})

	scores, err := o.Assess(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if client.callCount() != 3 {
		t.Errorf("calls = %d, want 3", client.callCount())
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second}
	if len(*waits) != len(want) {
		t.Fatalf("waits = %v, want %v", *waits, want)
	}
	for i, w := range want {
		if (*waits)[i] != w {
			t.Errorf("wait[%d] = %v, want %v", i, (*waits)[i], w)
		}
	}
	if got := scores["Q1"].Level; got != 1 {
		t.Errorf("Q1 level = %d, want 1", got)
	}
}

func TestAssessFallsBackAfterBatchExhaustion(t *testing.T) {
	client := &fakeClient{
		respond: func(_ int, prompt string) (string, error) {
			if isBatchPrompt(prompt) {
				return "", errors.New("504 deadline exceeded")
			}
			return "LEVEL: 1\nREASON: single path", nil
		},
	}
	o, waits := newTestOrchestrator(t, client, Options{BackoffStep: 5 * time.Second})

	scores, err := o.Assess(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	// 3 batch attempts then one call per symptom.
	if got := client.callCount(); got != 3+scoring.SymptomCount {
		t.Errorf("calls = %d, want %d", got, 3+scoring.SymptomCount)
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second}
	if len(*waits) != len(want) {
		t.Fatalf("waits = %v, want %v", *waits, want)
	}
	for _, sym := range scoring.Symptoms() {
		got := scores[sym.ID]
		if got.Level != 1 || got.Reason != "single path" {
			t.Errorf("%s = %+v, want level 1 from fallback", sym.ID, got)
		}
	}
}

func TestAssessNonTransientSkipsBatchRetries(t *testing.T) {
	client := &fakeClient{
		respond: func(_ int, prompt string) (string, error) {
			if isBatchPrompt(prompt) {
				return "", errors.New("model not found")
			}
			return "LEVEL: 0\nREASON: nothing notable", nil
		},
	}
	o, waits := newTestOrchestrator(t, client, Options{})

	scores, err := o.Assess(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if got := client.callCount(); got != 1+scoring.SymptomCount {
		t.Errorf("calls = %d, want %d", got, 1+scoring.SymptomCount)
	}
	if len(*waits) != 0 {
		t.Errorf("waits = %v, want none", *waits)
	}
	if got := scores["Q3"].Level; got != 0 {
		t.Errorf("Q3 level = %d, want 0", got)
	}
}

func TestFallbackSymptomExhaustionDefaults(t *testing.T) {
	client := &fakeClient{
		respond: func(_ int, _ string) (string, error) {
			return "", errors.New("429 rate limit")
		},
	}
	o, _ := newTestOrchestrator(t, client, Options{
		BatchRetries:   1,
		SymptomRetries: 2,
		BackoffStep:    time.Second,
	})

	scores, err := o.Assess(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if len(scores) != scoring.SymptomCount {
		t.Fatalf("len(scores) = %d, want %d", len(scores), scoring.SymptomCount)
	}
	for _, sym := range scoring.Symptoms() {
		got := scores[sym.ID]
		if got.Level != 0 || got.Reason != scoring.DefaultReason {
			t.Errorf("%s = %+v, want not-assessed default", sym.ID, got)
		}
	}
	// 1 batch attempt + 2 attempts per symptom.
	if got := client.callCount(); got != 1+2*scoring.SymptomCount {
		t.Errorf("calls = %d, want %d", got, 1+2*scoring.SymptomCount)
	}
}

func TestFallbackDiscardsOutOfRangeLevels(t *testing.T) {
	client := &fakeClient{
		respond: func(_ int, prompt string) (string, error) {
			if isBatchPrompt(prompt) {
				return "", errors.New("429 rate limit")
			}
			return "LEVEL: 7\nREASON: way out of range", nil
		},
	}
	o, _ := newTestOrchestrator(t, client, Options{BatchRetries: 1})

	scores, err := o.Assess(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	for _, sym := range scoring.Symptoms() {
		got := scores[sym.ID]
		if got.Level != 0 || got.Reason != scoring.DefaultReason {
			t.Errorf("%s = %+v, want discarded default", sym.ID, got)
		}
	}
	// Unusable responses are not retried.
	if got := client.callCount(); got != 1+scoring.SymptomCount {
		t.Errorf("calls = %d, want %d", got, 1+scoring.SymptomCount)
	}
}

func TestAssessEmptyInput(t *testing.T) {
	client := &fakeClient{
		respond: func(_ int, _ string) (string, error) {
			t.Error("no completion call expected for empty input")
			return "", nil
		},
	}
	o, _ := newTestOrchestrator(t, client, Options{})

	scores, err := o.Assess(context.Background(), nil)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if len(scores) != scoring.SymptomCount {
		t.Fatalf("len(scores) = %d, want %d", len(scores), scoring.SymptomCount)
	}
	if got := scores["Q1"]; got.Level != 0 || got.Reason != scoring.DefaultReason {
		t.Errorf("Q1 = %+v, want default", got)
	}
}

func TestAssessBoundedConcurrencyFallback(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	client := &fakeClient{
		respond: func(_ int, prompt string) (string, error) {
			if isBatchPrompt(prompt) {
				return "", errors.New("429 rate limit")
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return "LEVEL: 1\nREASON: ok", nil
		},
	}
	o, _ := newTestOrchestrator(t, client, Options{
		BatchRetries:        1,
		FallbackConcurrency: 4,
	})

	if _, err := o.Assess(context.Background(), []string{"text"}); err != nil {
		t.Fatalf("Assess: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if maxSeen > 4 {
		t.Errorf("max concurrent calls = %d, want <= 4", maxSeen)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit status", errors.New("429 Too Many Requests"), true},
		{"rate limit text", errors.New("Rate limit reached for requests"), true},
		{"gateway timeout", errors.New("504 deadline exceeded"), true},
		{"server error", errors.New("500 internal server error"), true},
		{"service unavailable", errors.New("503 service unavailable"), true},
		{"plain timeout", errors.New("request timeout"), true},
		{"bad request", errors.New("400 invalid request"), false},
		{"auth failure", errors.New("401 invalid api key"), false},
		{"model missing", errors.New("model not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBatchPrompt(t *testing.T) {
	prompt := BatchPrompt("sample entry text")

	if !strings.Contains(prompt, "1. how sad the user feels") {
		t.Error("prompt should enumerate the first symptom phrase")
	}
	if !strings.Contains(prompt, "21. how much the user loses interest in sex") {
		t.Error("prompt should enumerate the last symptom phrase")
	}
	if !strings.Contains(prompt, "Q21_LEVEL: <0/1/2/3>") {
		t.Error("prompt should demand the tagged response format")
	}
	if !strings.Contains(prompt, "sample entry text") {
		t.Error("prompt should embed the user text")
	}
}

func TestSymptomPrompt(t *testing.T) {
	sym, _ := scoring.SymptomByID("Q10")
	prompt := SymptomPrompt(sym, "sample entry text")

	if !strings.Contains(prompt, `"how often the user cries"`) {
		t.Error("prompt should quote the symptom phrase")
	}
	if !strings.Contains(prompt, "LEVEL: <number>") {
		t.Error("prompt should demand the bare tag format")
	}
}
