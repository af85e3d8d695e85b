package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/yigitech/x-wrapped/internal/db/lookuphistory"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

type leaderboardEntry struct {
	Handle    string    `json:"handle"`
	Score     int       `json:"score"`
	Tier      string    `json:"tier"`
	Followers int       `json:"followers"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// GetLeaderboardHandler handles GET /leaderboard?limit= requests, returning
// the highest-scoring recorded lookups. Requires a configured database.
func GetLeaderboardHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, map[string]any{
				"error": "method_not_allowed",
			})
			return
		}

		if deps.Conns == nil || deps.Conns.DB == nil {
			writeError(w, http.StatusServiceUnavailable, map[string]any{
				"error": "leaderboard not configured",
			})
			return
		}

		limit := defaultLeaderboardLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, map[string]any{
					"error": "limit must be a positive integer",
				})
				return
			}
			limit = parsed
		}
		if limit > maxLeaderboardLimit {
			limit = maxLeaderboardLimit
		}

		records, err := lookuphistory.TopScores(deps.Conns, limit)
		if err != nil {
			slog.Error("api.leaderboard.query_failed",
				"component", "api",
				"event", "leaderboard.error",
				"error", err,
			)
			writeError(w, http.StatusInternalServerError, map[string]any{
				"error":   "internal_error",
				"message": "An unexpected error occurred. Please try again later.",
			})
			return
		}

		entries := make([]leaderboardEntry, 0, len(records))
		for _, rec := range records {
			entries = append(entries, leaderboardEntry{
				Handle:    rec.Handle,
				Score:     rec.Score,
				Tier:      rec.Tier,
				Followers: rec.Followers,
				FetchedAt: rec.FetchedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"entries": entries})
	}
}
