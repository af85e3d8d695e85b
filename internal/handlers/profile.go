package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yigitech/x-wrapped/internal/services/profileservice"
	"github.com/yigitech/x-wrapped/internal/types"
)

// profileResponse is the public shape of a lookup result. CacheAgeSeconds is
// only present when the result came from cache.
type profileResponse struct {
	types.AggregatedStats
	Cached          bool                         `json:"cached"`
	CacheAgeSeconds int                          `json:"cacheAgeSeconds,omitempty"`
	RateLimit       profileservice.RateLimitEcho `json:"rateLimit"`
}

// GetProfileHandler handles GET /profile?handle= requests. It delegates to
// the profile service and translates its error taxonomy into HTTP responses.
func GetProfileHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, map[string]any{
				"error": "method_not_allowed",
			})
			return
		}

		handle := r.URL.Query().Get("handle")
		if types.NormalizeHandle(handle) == "" {
			writeError(w, http.StatusBadRequest, map[string]any{
				"error": "handle is required",
			})
			return
		}

		result, err := deps.Profiles.GetProfileStats(r.Context(), handle)
		if err != nil {
			writeProfileError(w, handle, err)
			return
		}

		if result.Cached {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profileResponse{
			AggregatedStats: result.Stats,
			Cached:          result.Cached,
			CacheAgeSeconds: result.CacheAgeSeconds,
			RateLimit:       result.RateLimit,
		})
	}
}

func writeProfileError(w http.ResponseWriter, handle string, err error) {
	if errors.Is(err, types.ErrNotFound) {
		writeError(w, http.StatusNotFound, map[string]any{
			"error": "profile not found",
		})
		return
	}

	var rlErr *types.RateLimitedError
	if errors.As(err, &rlErr) {
		retryAfter := rlErr.RetryAfterSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeError(w, http.StatusTooManyRequests, map[string]any{
			"error":      "rate_limit_exceeded",
			"message":    "Upstream API limit reached. Please try again later.",
			"retryAfter": retryAfter,
		})
		return
	}

	var upErr *types.UpstreamError
	if errors.As(err, &upErr) {
		writeError(w, http.StatusForbidden, map[string]any{
			"error":   "upstream_error",
			"message": "Profile data is currently unavailable. Please try again later.",
			"code":    upErr.StatusCode,
		})
		return
	}

	slog.Error("api.profile.unexpected_error",
		"component", "api",
		"event", "profile.error",
		"handle", handle,
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, map[string]any{
		"error":   "internal_error",
		"message": "An unexpected error occurred. Please try again later.",
	})
}

func writeError(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
