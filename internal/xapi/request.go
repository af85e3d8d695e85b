package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yigitech/x-wrapped/internal/metrics"
	"github.com/yigitech/x-wrapped/internal/types"
)

// RateLimitInfo is the rate-limit metadata parsed from upstream response
// headers. Present is false when the response carried no usable headers.
type RateLimitInfo struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
	Present   bool
}

// RateLimitError indicates the upstream rejected the call with HTTP 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("upstream rate limit exceeded, retry after %s", e.RetryAfter)
}

// get performs a GET against the X API and decodes the body into target on
// 200. The returned RateLimitInfo is valid whenever headers were present,
// regardless of the outcome.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, target any) (RateLimitInfo, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return RateLimitInfo{}, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return RateLimitInfo{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	slog.Debug("xapi.request",
		"component", "xapi",
		"event", "api.request.start",
		"endpoint", endpoint,
		"path", path,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		// Includes timeouts. No rate-limit metadata available.
		slog.Error("xapi.request_failed",
			"component", "xapi",
			"event", "api.error",
			"endpoint", endpoint,
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		metrics.UpstreamAPILatency.WithLabelValues(endpoint, "error").Observe(duration.Seconds())
		return RateLimitInfo{}, &types.UpstreamError{Message: "upstream request failed"}
	}
	defer resp.Body.Close()

	metrics.UpstreamAPILatency.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(duration.Seconds())

	limits := parseRateLimitHeaders(resp.Header)

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfterHeader(resp.Header.Get("Retry-After"), limits)
		slog.Warn("xapi.rate_limited",
			"component", "xapi",
			"event", "api.rate_limited",
			"endpoint", endpoint,
			"retry_after_seconds", int(retryAfter.Seconds()),
		)
		return limits, &RateLimitError{RetryAfter: retryAfter}
	}

	if resp.StatusCode == http.StatusNotFound {
		return limits, types.ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		const maxErrorBody = 4096
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Error("xapi.error_response",
			"component", "xapi",
			"event", "api.error",
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
			"response_body", string(bodyBytes),
			"duration_ms", duration.Milliseconds(),
		)
		// Vendor detail stays in the log; callers get a sanitized message.
		return limits, &types.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    "upstream API error",
		}
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			slog.Error("xapi.decode_error",
				"component", "xapi",
				"event", "api.error",
				"endpoint", endpoint,
				"error", err,
			)
			return limits, &types.UpstreamError{Message: "failed to decode upstream response"}
		}
	}

	return limits, nil
}

// parseRetryAfterHeader turns a Retry-After value in seconds into a duration,
// falling back to the reset header and then to zero (the caller applies its
// own default).
func parseRetryAfterHeader(value string, limits RateLimitInfo) time.Duration {
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if limits.Present {
		if until := time.Until(limits.ResetAt); until > 0 {
			return until
		}
	}
	return 0
}

// parseRateLimitHeaders parses the standard X API rate-limit headers:
//   - x-rate-limit-limit: request cap for the window
//   - x-rate-limit-remaining: requests left before a 429
//   - x-rate-limit-reset: window reset as a Unix timestamp in seconds
func parseRateLimitHeaders(headers http.Header) RateLimitInfo {
	remainingStr := headers.Get("x-rate-limit-remaining")
	if remainingStr == "" {
		return RateLimitInfo{}
	}

	remaining, err := strconv.Atoi(remainingStr)
	if err != nil {
		slog.Warn("xapi.invalid_rate_limit_header",
			"component", "xapi",
			"header", "x-rate-limit-remaining",
			"value", remainingStr,
			"error", err,
		)
		return RateLimitInfo{}
	}

	info := RateLimitInfo{Remaining: remaining, Present: true}

	if limitStr := headers.Get("x-rate-limit-limit"); limitStr != "" {
		info.Limit, _ = strconv.Atoi(limitStr)
	}
	if resetStr := headers.Get("x-rate-limit-reset"); resetStr != "" {
		if epoch, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			info.ResetAt = time.Unix(epoch, 0)
		}
	}

	slog.Debug("xapi.rate_limit_headers",
		"component", "xapi",
		"limit", info.Limit,
		"remaining", info.Remaining,
		"reset_at", info.ResetAt,
	)

	return info
}
