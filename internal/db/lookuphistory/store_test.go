package lookuphistory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitech/x-wrapped/internal/db"
)

func record(handle string, score int, fetchedAt time.Time) *db.LookupRecord {
	return &db.LookupRecord{
		Handle:    handle,
		Score:     score,
		Tier:      "Explorer",
		Followers: score / 2,
		FetchedAt: fetchedAt,
	}
}

func TestTopScores_OrdersByScore(t *testing.T) {
	conns := db.SetupTestDB(t)
	now := time.Now()

	require.NoError(t, Create(conns, record("alice", 4000, now)))
	require.NoError(t, Create(conns, record("bob", 9000, now)))
	require.NoError(t, Create(conns, record("carol", 100, now)))

	top, err := TopScores(conns, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "bob", top[0].Handle)
	assert.Equal(t, "alice", top[1].Handle)
	assert.Equal(t, "carol", top[2].Handle)
}

func TestTopScores_LatestRecordPerHandle(t *testing.T) {
	conns := db.SetupTestDB(t)
	now := time.Now()

	require.NoError(t, Create(conns, record("alice", 9000, now.Add(-time.Hour))))
	require.NoError(t, Create(conns, record("alice", 4000, now)))

	top, err := TopScores(conns, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 4000, top[0].Score, "latest record wins, even with a lower score")
}

func TestTopScores_RespectsLimit(t *testing.T) {
	conns := db.SetupTestDB(t)
	now := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, Create(conns, record(string(rune('a'+i)), i*100, now)))
	}

	top, err := TopScores(conns, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestDeleteOlderThan(t *testing.T) {
	conns := db.SetupTestDB(t)
	now := time.Now()

	require.NoError(t, Create(conns, record("old", 100, now.Add(-48*time.Hour))))
	require.NoError(t, Create(conns, record("new", 200, now)))

	require.NoError(t, DeleteOlderThan(conns, 24*time.Hour))

	top, err := TopScores(conns, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "new", top[0].Handle)
}
