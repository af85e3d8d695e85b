// Package profileservice orchestrates profile lookups: it sequences the
// rate-limit gate and cache checks around the upstream fetch, aggregates the
// result, and falls back to stale cache whenever the upstream is unavailable
// due to rate limiting.
package profileservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yigitech/x-wrapped/internal/cache"
	"github.com/yigitech/x-wrapped/internal/config"
	"github.com/yigitech/x-wrapped/internal/db"
	"github.com/yigitech/x-wrapped/internal/db/lookuphistory"
	"github.com/yigitech/x-wrapped/internal/metrics"
	"github.com/yigitech/x-wrapped/internal/ratelimit"
	"github.com/yigitech/x-wrapped/internal/stats"
	"github.com/yigitech/x-wrapped/internal/types"
	"github.com/yigitech/x-wrapped/internal/xapi"
)

// UpstreamClient fetches raw profile data. Implemented by *xapi.Client;
// tests substitute their own.
type UpstreamClient interface {
	FetchProfile(ctx context.Context, handle string) (types.RawProfile, xapi.RateLimitInfo, error)
	FetchRecentPosts(ctx context.Context, profileID string, limit int) ([]types.RawPost, xapi.RateLimitInfo, error)
}

// RateLimitEcho reports the upstream quota state to callers.
type RateLimitEcho struct {
	Remaining      int `json:"remaining"`
	ResetInSeconds int `json:"resetInSeconds"`
}

// Result is the service response for one lookup.
type Result struct {
	Stats           types.AggregatedStats
	Cached          bool
	CacheAgeSeconds int
	RateLimit       RateLimitEcho
}

// Service coordinates cache, rate-limit tracker and upstream client per
// request. Safe for concurrent use; all mutable state lives in the injected
// stores.
type Service struct {
	upstream   UpstreamClient
	cacheStore cache.Store
	tracker    *ratelimit.Tracker
	conns      *db.Connections
	ttl        time.Duration
	sampleSize int
}

// New creates the orchestrator. conns may be nil when no lookup history
// database is configured.
func New(
	upstream UpstreamClient,
	cacheStore cache.Store,
	tracker *ratelimit.Tracker,
	conns *db.Connections,
	cfg *config.Config,
) *Service {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		upstream:   upstream,
		cacheStore: cacheStore,
		tracker:    tracker,
		conns:      conns,
		ttl:        ttl,
		sampleSize: cfg.Upstream.PostSampleSize,
	}
}

// GetProfileStats runs the lookup state machine for a handle:
// rate-limit gate -> cache -> upstream -> aggregate and store, with cache
// fallback (fresh or stale) whenever upstream calls are gated or rejected
// for rate limiting. The handle may carry a leading "@".
func (s *Service) GetProfileStats(ctx context.Context, handle string) (*Result, error) {
	handle = types.NormalizeHandle(handle)
	now := time.Now()

	if s.tracker.IsBlocking(now) {
		if entry, ok := s.cacheStore.Get(ctx, handle); ok {
			slog.Info("profile.rate_limited_cache_fallback",
				"component", "profileservice",
				"event", "lookup.cache_fallback",
				"handle", handle,
				"cache_age_seconds", int(entry.Age(now).Seconds()),
			)
			metrics.ProfileLookups.WithLabelValues(s.cacheOutcome(entry, now)).Inc()
			return s.cachedResult(entry, now), nil
		}
		metrics.ProfileLookups.WithLabelValues("rate_limited").Inc()
		return nil, &types.RateLimitedError{
			RetryAfter: time.Duration(s.tracker.SecondsUntilReset(now)) * time.Second,
		}
	}

	entry, hasEntry := s.cacheStore.Get(ctx, handle)
	if hasEntry && entry.IsFresh(s.ttl, now) {
		slog.Debug("profile.cache_hit",
			"component", "profileservice",
			"event", "lookup.cache_hit",
			"handle", handle,
		)
		metrics.ProfileLookups.WithLabelValues("cache_fresh").Inc()
		return s.cachedResult(entry, now), nil
	}

	// Detach the upstream path from caller cancellation so an abandoned
	// request still finishes and warms the cache for the next caller.
	fetchCtx := context.WithoutCancel(ctx)

	profile, limits, err := s.upstream.FetchProfile(fetchCtx, handle)
	s.observe(limits)

	var posts []types.RawPost
	if err == nil {
		posts, limits, err = s.upstream.FetchRecentPosts(fetchCtx, profile.ID, s.sampleSize)
		s.observe(limits)
	}

	if err != nil {
		return s.handleUpstreamError(fetchCtx, err, handle, entry, hasEntry)
	}

	fetchedAt := time.Now()
	aggregated := stats.Aggregate(profile, posts, fetchedAt)
	s.cacheStore.Set(fetchCtx, handle, aggregated, fetchedAt)
	s.recordLookup(aggregated, fetchedAt)

	metrics.ProfileLookups.WithLabelValues("fresh").Inc()
	remaining, resetIn := s.tracker.Snapshot(fetchedAt)
	return &Result{
		Stats:     aggregated,
		RateLimit: RateLimitEcho{Remaining: remaining, ResetInSeconds: resetIn},
	}, nil
}

// handleUpstreamError maps upstream failures to responses. Rate-limit
// failures mark the tracker and recover via any cache entry, fresh or stale;
// everything else surfaces to the caller with no cache write.
func (s *Service) handleUpstreamError(ctx context.Context, err error, handle string, entry *cache.Entry, hasEntry bool) (*Result, error) {
	now := time.Now()

	if errors.Is(err, types.ErrNotFound) {
		metrics.ProfileLookups.WithLabelValues("not_found").Inc()
		return nil, err
	}

	var rlErr *xapi.RateLimitError
	if errors.As(err, &rlErr) {
		s.tracker.MarkLimited(rlErr.RetryAfter, now)
		if hasEntry {
			slog.Warn("profile.upstream_rate_limited_cache_fallback",
				"component", "profileservice",
				"event", "lookup.cache_fallback",
				"handle", handle,
			)
			metrics.ProfileLookups.WithLabelValues(s.cacheOutcome(entry, now)).Inc()
			return s.cachedResult(entry, now), nil
		}
		metrics.ProfileLookups.WithLabelValues("rate_limited").Inc()
		return nil, &types.RateLimitedError{
			RetryAfter: time.Duration(s.tracker.SecondsUntilReset(now)) * time.Second,
		}
	}

	slog.Error("profile.upstream_error",
		"component", "profileservice",
		"event", "lookup.upstream_error",
		"handle", handle,
		"error", err,
	)
	metrics.ProfileLookups.WithLabelValues("upstream_error").Inc()
	return nil, err
}

func (s *Service) cachedResult(entry *cache.Entry, now time.Time) *Result {
	remaining, resetIn := s.tracker.Snapshot(now)
	return &Result{
		Stats:           entry.Stats,
		Cached:          true,
		CacheAgeSeconds: int(entry.Age(now).Seconds()),
		RateLimit:       RateLimitEcho{Remaining: remaining, ResetInSeconds: resetIn},
	}
}

func (s *Service) cacheOutcome(entry *cache.Entry, now time.Time) string {
	if entry.IsFresh(s.ttl, now) {
		return "cache_fresh"
	}
	return "cache_stale"
}

func (s *Service) observe(limits xapi.RateLimitInfo) {
	if limits.Present {
		s.tracker.Observe(limits.Remaining, limits.ResetAt)
	}
}

// recordLookup appends to the leaderboard history. Best effort: failures are
// logged, never surfaced.
func (s *Service) recordLookup(aggregated types.AggregatedStats, fetchedAt time.Time) {
	if s.conns == nil || s.conns.DB == nil {
		return
	}
	record := &db.LookupRecord{
		Handle:    aggregated.Handle,
		Score:     aggregated.Score,
		Tier:      aggregated.Tier,
		Followers: aggregated.Followers,
		FetchedAt: fetchedAt,
	}
	if err := lookuphistory.Create(s.conns, record); err != nil {
		slog.Error("profile.lookup_record_failed",
			"component", "profileservice",
			"event", "history.error",
			"handle", aggregated.Handle,
			"error", err,
		)
	}
}
