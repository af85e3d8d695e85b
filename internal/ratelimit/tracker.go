package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/yigitech/x-wrapped/internal/metrics"
)

// DefaultRetryAfter is used when the upstream reports a limit error without
// usable reset metadata.
const DefaultRetryAfter = 900 * time.Second

// DefaultFloor is the remaining-calls threshold that proactively flips the
// tracker to limited before the upstream starts rejecting calls.
const DefaultFloor = 2

// Tracker holds the process-wide upstream rate-limit state. It is fed from
// the metadata of the most recent upstream response (success or failure) and
// never decrements locally. Updates are last-write-wins by call order.
type Tracker struct {
	mu        sync.Mutex
	floor     int
	remaining int
	resetAt   time.Time
	limited   bool
}

// NewTracker creates a tracker with the given remaining-calls floor.
// A floor below zero falls back to DefaultFloor.
func NewTracker(floor int) *Tracker {
	if floor < 0 {
		floor = DefaultFloor
	}
	return &Tracker{floor: floor}
}

// Observe records the rate-limit metadata from an upstream response. The
// latest observation wins unconditionally.
func (t *Tracker) Observe(remaining int, resetAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.remaining = remaining
	t.resetAt = resetAt
	t.limited = remaining <= t.floor

	metrics.UpstreamRateLimitRemaining.Set(float64(remaining))
	if t.limited {
		metrics.UpstreamRateLimited.Set(1)
		slog.Warn("ratelimit.floor_reached",
			"component", "ratelimit",
			"event", "rate_limit.limited",
			"remaining", remaining,
			"reset_at", resetAt,
		)
	} else {
		metrics.UpstreamRateLimited.Set(0)
	}
}

// MarkLimited force-flips the tracker to limited. Used when the upstream
// itself reports a limit error without usable metadata. A non-positive
// retryAfter falls back to DefaultRetryAfter.
func (t *Tracker) MarkLimited(retryAfter time.Duration, now time.Time) {
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.limited = true
	t.remaining = 0
	t.resetAt = now.Add(retryAfter)

	metrics.UpstreamRateLimited.Set(1)
	metrics.UpstreamRateLimitEvents.Inc()
	slog.Warn("ratelimit.marked_limited",
		"component", "ratelimit",
		"event", "rate_limit.blocked",
		"reset_at", t.resetAt,
		"retry_after_seconds", int(retryAfter.Seconds()),
	)
}

// IsBlocking reports whether upstream calls should be gated at the given
// time. The limited flag clears automatically once the reset time passes.
func (t *Tracker) IsBlocking(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.limited && !now.Before(t.resetAt) {
		t.limited = false
		metrics.UpstreamRateLimited.Set(0)
	}
	return t.limited
}

// SecondsUntilReset returns whole seconds until the limit window resets,
// rounded up, at least 1. Intended for Retry-After headers.
func (t *Tracker) SecondsUntilReset(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	secs := int(t.resetAt.Sub(now).Seconds() + 0.999)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Snapshot returns the current remaining count and seconds until reset for
// echoing in API responses.
func (t *Tracker) Snapshot(now time.Time) (remaining int, resetInSeconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	resetIn := int(t.resetAt.Sub(now).Seconds())
	if resetIn < 0 {
		resetIn = 0
	}
	return t.remaining, resetIn
}
