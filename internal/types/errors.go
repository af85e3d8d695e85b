package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates the handle does not exist upstream.
var ErrNotFound = errors.New("profile not found")

// RateLimitedError indicates the upstream rate limit is exhausted and no
// cached fallback was available.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// RetryAfterSeconds returns the retry delay rounded up to whole seconds,
// never less than 1 so clients always get a usable Retry-After value.
func (e *RateLimitedError) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// UpstreamError is a non-rate-limit upstream failure. Message is sanitized
// for the caller; vendor detail beyond the HTTP status stays in the logs.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
}
