package assessor

import (
	"context"
	"strings"
	"time"
)

// Markers that identify retryable completion failures: rate limiting,
// timeouts, and transient upstream errors.
var transientMarkers = []string{
	"429",
	"rate limit",
	"too many requests",
	"500",
	"internal server error",
	"server_error",
	"502",
	"503",
	"504",
	"unavailable",
	"timeout",
	"deadline exceeded",
	"overloaded",
}

// IsTransient reports whether a completion-service error is a retryable
// condition. Classification is by message content since provider SDKs
// surface HTTP failures as opaque errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// sleepContext blocks for d or until the context is done, reporting the
// context error when interrupted.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
