package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitech/x-wrapped/internal/db"
	"github.com/yigitech/x-wrapped/internal/db/lookuphistory"
)

func seedLookup(t *testing.T, conns *db.Connections, handle string, score int, tier string) {
	t.Helper()
	err := lookuphistory.Create(conns, &db.LookupRecord{
		Handle:    handle,
		Score:     score,
		Tier:      tier,
		Followers: score / 2,
		FetchedAt: time.Now(),
	})
	require.NoError(t, err)
}

func getLeaderboard(t *testing.T, deps *Dependencies, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	GetLeaderboardHandler(deps)(rec, req)
	return rec
}

func TestGetLeaderboard_NoDatabase(t *testing.T) {
	deps := &Dependencies{}

	rec := getLeaderboard(t, deps, "/leaderboard")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetLeaderboard_ReturnsEntriesByScore(t *testing.T) {
	conns := db.SetupTestDB(t)
	deps := &Dependencies{Conns: conns}
	seedLookup(t, conns, "alice", 12000, "Active Voice")
	seedLookup(t, conns, "bob", 250000, "X Legend")
	seedLookup(t, conns, "carol", 60000, "Influencer")

	rec := getLeaderboard(t, deps, "/leaderboard")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Entries []leaderboardEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Entries, 3)
	assert.Equal(t, "bob", body.Entries[0].Handle)
	assert.Equal(t, "X Legend", body.Entries[0].Tier)
	assert.Equal(t, "carol", body.Entries[1].Handle)
	assert.Equal(t, "alice", body.Entries[2].Handle)
}

func TestGetLeaderboard_LimitApplied(t *testing.T) {
	conns := db.SetupTestDB(t)
	deps := &Dependencies{Conns: conns}
	seedLookup(t, conns, "alice", 100, "Explorer")
	seedLookup(t, conns, "bob", 200, "Explorer")
	seedLookup(t, conns, "carol", 300, "Explorer")

	rec := getLeaderboard(t, deps, "/leaderboard?limit=2")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Entries []leaderboardEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "carol", body.Entries[0].Handle)
}

func TestGetLeaderboard_InvalidLimit(t *testing.T) {
	conns := db.SetupTestDB(t)
	deps := &Dependencies{Conns: conns}

	for _, v := range []string{"abc", "0", "-5"} {
		rec := getLeaderboard(t, deps, "/leaderboard?limit="+v)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", v)
	}
}

func TestGetLeaderboard_EmptyBoard(t *testing.T) {
	conns := db.SetupTestDB(t)
	deps := &Dependencies{Conns: conns}

	rec := getLeaderboard(t, deps, "/leaderboard")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Entries []leaderboardEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Entries)
}
