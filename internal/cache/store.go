package cache

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/yigitech/x-wrapped/internal/metrics"
	"github.com/yigitech/x-wrapped/internal/types"
)

// DefaultTTL is the default fresh window for cached results.
const DefaultTTL = 15 * time.Minute

// Entry is one cached aggregation result. Entries are immutable once
// written; a later Set for the same handle replaces the whole entry.
type Entry struct {
	Stats     types.AggregatedStats `json:"stats"`
	WrittenAt time.Time             `json:"written_at"`
}

// Age returns how long ago the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenAt)
}

// IsFresh reports whether the entry is inside its TTL window. Stale entries
// stay retrievable as the fallback during rate limiting.
func (e *Entry) IsFresh(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.WrittenAt) < ttl
}

// Store is a keyed cache of aggregation results per normalized handle.
// Implementations must support concurrent Get/Set with atomic entry
// snapshots. Failures are handled internally; a failed Get is a miss and a
// failed Set is logged and dropped, since losing cache is never fatal.
type Store interface {
	Get(ctx context.Context, handle string) (*Entry, bool)
	Set(ctx context.Context, handle string, stats types.AggregatedStats, now time.Time)
}

// MemoryStore is the default in-process Store. State lives only in process
// memory and is lost on restart.
type MemoryStore struct {
	entries *xsync.MapOf[string, *Entry]
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: xsync.NewMapOf[string, *Entry](),
	}
}

func (s *MemoryStore) Get(_ context.Context, handle string) (*Entry, bool) {
	entry, ok := s.entries.Load(handle)
	if !ok {
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
		return nil, false
	}
	metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
	return entry, true
}

func (s *MemoryStore) Set(_ context.Context, handle string, stats types.AggregatedStats, now time.Time) {
	s.entries.Store(handle, &Entry{Stats: stats, WrittenAt: now})
	metrics.CacheOperations.WithLabelValues("set", "ok").Inc()
}
