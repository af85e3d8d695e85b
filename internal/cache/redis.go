package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yigitech/x-wrapped/internal/db"
	"github.com/yigitech/x-wrapped/internal/metrics"
	"github.com/yigitech/x-wrapped/internal/types"
)

// DefaultFallbackTTL bounds how long stale entries are kept in Redis for
// emergency use during rate limiting. Freshness is decided logically from
// Entry.WrittenAt, not from the Redis key TTL.
const DefaultFallbackTTL = 8 * 24 * time.Hour

// RedisStore is a Store backed by Redis, for deployments that want the cache
// to survive process restarts.
type RedisStore struct {
	client      *db.RedisClient
	fallbackTTL time.Duration
}

// NewRedisStore creates a Redis-backed store. A non-positive fallbackTTL
// falls back to DefaultFallbackTTL.
func NewRedisStore(client *db.RedisClient, fallbackTTL time.Duration) *RedisStore {
	if fallbackTTL <= 0 {
		fallbackTTL = DefaultFallbackTTL
	}
	return &RedisStore{client: client, fallbackTTL: fallbackTTL}
}

func (s *RedisStore) Get(ctx context.Context, handle string) (*Entry, bool) {
	data, err := s.client.Get(ctx, s.key(handle)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Error("cache.redis.get_failed",
				"component", "cache",
				"event", "cache.error",
				"error", err,
			)
			metrics.CacheOperations.WithLabelValues("get", "error").Inc()
			return nil, false
		}
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		// Corrupt entry. Treat as a miss so the caller fetches fresh data.
		slog.Warn("cache.redis.corrupt_entry",
			"component", "cache",
			"event", "cache.error",
			"handle", handle,
			"error", err,
		)
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
		return nil, false
	}

	metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
	return &entry, true
}

func (s *RedisStore) Set(ctx context.Context, handle string, stats types.AggregatedStats, now time.Time) {
	entry := Entry{Stats: stats, WrittenAt: now}
	data, err := json.Marshal(entry)
	if err != nil {
		slog.Error("cache.redis.marshal_failed",
			"component", "cache",
			"event", "cache.error",
			"handle", handle,
			"error", err,
		)
		metrics.CacheOperations.WithLabelValues("set", "error").Inc()
		return
	}

	if err := s.client.Set(ctx, s.key(handle), data, s.fallbackTTL).Err(); err != nil {
		slog.Error("cache.redis.set_failed",
			"component", "cache",
			"event", "cache.error",
			"handle", handle,
			"error", err,
		)
		metrics.CacheOperations.WithLabelValues("set", "error").Inc()
		return
	}
	metrics.CacheOperations.WithLabelValues("set", "ok").Inc()
}

func (s *RedisStore) key(handle string) string {
	return fmt.Sprintf("profile_stats:%s", handle)
}
