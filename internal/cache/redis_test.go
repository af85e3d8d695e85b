package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitech/x-wrapped/internal/db"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := db.NewRedisClientForAddr(mr.Addr(), "test:")
	return NewRedisStore(client, 0), mr
}

func TestRedisStore_MissOnUnknownHandle(t *testing.T) {
	store, _ := setupRedisStore(t)

	_, ok := store.Get(context.Background(), "nobody")
	assert.False(t, ok)
}

func TestRedisStore_SetThenGet(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	store.Set(ctx, "alice", statsFor("alice", 100), now)

	entry, ok := store.Get(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, "alice", entry.Stats.Handle)
	assert.Equal(t, 100, entry.Stats.Score)
	assert.True(t, entry.WrittenAt.Equal(now))
}

func TestRedisStore_SetOverwrites(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()
	now := time.Now()

	store.Set(ctx, "alice", statsFor("alice", 100), now.Add(-time.Hour))
	store.Set(ctx, "alice", statsFor("alice", 250), now)

	entry, ok := store.Get(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, 250, entry.Stats.Score)
}

func TestRedisStore_StaleEntryIsRetrievable(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()
	written := time.Now().Add(-2 * time.Hour)

	store.Set(ctx, "alice", statsFor("alice", 100), written)

	entry, ok := store.Get(ctx, "alice")
	require.True(t, ok)
	assert.False(t, entry.IsFresh(15*time.Minute, time.Now()))
}

func TestRedisStore_CorruptEntryIsAMiss(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("test:profile_stats:alice", "{not json"))

	_, ok := store.Get(ctx, "alice")
	assert.False(t, ok)
}
