package detection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/barometerhq/barometer/internal/sessions"
)

type service struct {
	sessions sessions.System
	policy   Policy
	logger   *slog.Logger
}

// New creates a detection System over the given session source.
func New(sessionSys sessions.System, policy Policy, logger *slog.Logger) System {
	return &service{
		sessions: sessionSys,
		policy:   policy.Finalize(),
		logger:   logger.With("system", "detection"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Detect(ctx context.Context, ownerID uuid.UUID) (*Result, error) {
	history, err := s.sessions.ForOwner(ctx, ownerID, 0)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	result := Analyze(history, s.policy)

	s.logger.Info("detection run",
		"owner", ownerID,
		"sessions", len(history),
		"detected", result.Detected,
		"severity", result.Severity,
		"confidence", result.Confidence,
	)

	return &result, nil
}

func (s *service) Readiness(ctx context.Context, ownerID uuid.UUID) (*Readiness, error) {
	history, err := s.sessions.ForOwner(ctx, ownerID, 0)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	readiness := AssessReadiness(history, s.policy, time.Now().UTC())

	s.logger.Debug("readiness checked",
		"owner", ownerID,
		"ready", readiness.Ready,
		"sessions", readiness.Sessions,
		"days", readiness.DistinctDays,
	)

	return &readiness, nil
}
