package detection_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/internal/detection"
	"github.com/barometerhq/barometer/internal/scoring"
)

type mockSystem struct {
	detectFn    func(ctx context.Context, ownerID uuid.UUID) (*detection.Result, error)
	readinessFn func(ctx context.Context, ownerID uuid.UUID) (*detection.Readiness, error)
}

func (m *mockSystem) Handler() *detection.Handler {
	return detection.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) Detect(ctx context.Context, ownerID uuid.UUID) (*detection.Result, error) {
	return m.detectFn(ctx, ownerID)
}

func (m *mockSystem) Readiness(ctx context.Context, ownerID uuid.UUID) (*detection.Readiness, error) {
	return m.readinessFn(ctx, ownerID)
}

func setupMux(h *detection.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

var testOwner = uuid.MustParse("0f0e6c59-da10-4c3e-9e3b-8f2f4a1c9d11")

func TestHandlerDetect(t *testing.T) {
	t.Run("returns detection result", func(t *testing.T) {
		var captured uuid.UUID
		sys := &mockSystem{
			detectFn: func(_ context.Context, ownerID uuid.UUID) (*detection.Result, error) {
				captured = ownerID
				return &detection.Result{
					Detected:     true,
					Severity:     scoring.SeverityMild,
					Trend:        detection.TrendWorsening,
					Confidence:   detection.ConfidenceHigh,
					SessionsUsed: 14,
					TimeSpanDays: 21,
					TopSymptoms:  []string{"Sadness", "Loss of Energy"},
					Explanation:  "summary",
				}, nil
			},
		}
		mux := setupMux(sys.Handler())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/detection/"+testOwner.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured != testOwner {
			t.Errorf("owner = %v, want %v", captured, testOwner)
		}

		var got detection.Result
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !got.Detected || got.Trend != detection.TrendWorsening || got.SessionsUsed != 14 {
			t.Errorf("body = %+v, want detected worsening result", got)
		}
	})

	t.Run("rejects invalid owner id", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(sys.Handler())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/detection/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("system error maps to 500", func(t *testing.T) {
		sys := &mockSystem{
			detectFn: func(_ context.Context, _ uuid.UUID) (*detection.Result, error) {
				return nil, errors.New("connection refused")
			},
		}
		mux := setupMux(sys.Handler())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/detection/"+testOwner.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestHandlerReadiness(t *testing.T) {
	t.Run("returns readiness", func(t *testing.T) {
		sys := &mockSystem{
			readinessFn: func(_ context.Context, _ uuid.UUID) (*detection.Readiness, error) {
				return &detection.Readiness{
					Ready:         false,
					Sessions:      4,
					DistinctDays:  2,
					WindowDays:    30,
					MinSessions:   10,
					MinActiveDays: 5,
					Message:       "keep journaling",
				}, nil
			},
		}
		mux := setupMux(sys.Handler())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/detection/"+testOwner.String()+"/readiness", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got detection.Readiness
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if got.Ready || got.Sessions != 4 || got.DistinctDays != 2 {
			t.Errorf("body = %+v, want not-ready readiness", got)
		}
	})

	t.Run("rejects invalid owner id", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(sys.Handler())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/detection/not-a-uuid/readiness", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerRoutes(t *testing.T) {
	sys := &mockSystem{}
	group := sys.Handler().Routes()

	if group.Prefix != "/detection" {
		t.Errorf("prefix = %s, want /detection", group.Prefix)
	}

	want := []struct {
		method  string
		pattern string
	}{
		{"GET", "/{ownerId}"},
		{"GET", "/{ownerId}/readiness"},
	}

	if len(group.Routes) != len(want) {
		t.Fatalf("routes = %d, want %d", len(group.Routes), len(want))
	}
	for i, w := range want {
		if group.Routes[i].Method != w.method || group.Routes[i].Pattern != w.pattern {
			t.Errorf("route %d = %s %s, want %s %s",
				i, group.Routes[i].Method, group.Routes[i].Pattern, w.method, w.pattern)
		}
	}
}
