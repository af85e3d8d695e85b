// mock-x-server is a stand-in for the X API v2 used for local development
// and manual testing. It serves a small set of canned profiles and their
// recent posts, enforces a configurable rate limit with real x-rate-limit
// headers, and can simulate upstream outage.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultPort            = "8082"
	defaultRateLimit       = 25
	defaultRateLimitWindow = 900 // seconds, matches the real 15-minute window
)

// Config holds server configuration from environment variables.
type Config struct {
	Port            string
	BearerToken     string // empty accepts any token
	RateLimit       int
	RateLimitWindow int
	ServiceBlocked  bool
}

func loadConfig() Config {
	return Config{
		Port:            envOrDefault("PORT", defaultPort),
		BearerToken:     os.Getenv("MOCK_BEARER_TOKEN"),
		RateLimit:       envIntOrDefault("MOCK_RATE_LIMIT", defaultRateLimit),
		RateLimitWindow: envIntOrDefault("MOCK_RATE_LIMIT_WINDOW", defaultRateLimitWindow),
		ServiceBlocked:  envBoolOrDefault("MOCK_SERVICE_BLOCKED", false),
	}
}

type publicMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	LikeCount      int `json:"like_count"`
}

type userData struct {
	ID              string        `json:"id"`
	Username        string        `json:"username"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	ProfileImageURL string        `json:"profile_image_url,omitempty"`
	CreatedAt       string        `json:"created_at"`
	Verified        bool          `json:"verified"`
	Location        string        `json:"location,omitempty"`
	URL             string        `json:"url,omitempty"`
	PublicMetrics   publicMetrics `json:"public_metrics"`
}

type tweetMetrics struct {
	LikeCount    int `json:"like_count"`
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
}

type tweetData struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	CreatedAt     string       `json:"created_at"`
	PublicMetrics tweetMetrics `json:"public_metrics"`
}

// State holds all in-memory server state.
type State struct {
	mu        sync.Mutex
	remaining int
	windowEnd time.Time
	users     map[string]userData    // keyed by lowercase username
	tweets    map[string][]tweetData // keyed by user ID
}

var (
	cfg   Config
	state *State
)

func init() {
	cfg = loadConfig()
	state = &State{
		remaining: cfg.RateLimit,
		windowEnd: time.Now().Add(time.Duration(cfg.RateLimitWindow) * time.Second),
		users:     make(map[string]userData),
		tweets:    make(map[string][]tweetData),
	}
	seedUsers()
}

func seedUsers() {
	alice := userData{
		ID:              "1001",
		Username:        "alice",
		Name:            "Alice Example",
		Description:     "Building things in public. Coffee first.",
		ProfileImageURL: "https://pbs.example.com/alice_400x400.jpg",
		CreatedAt:       time.Now().AddDate(-3, 0, 0).Format(time.RFC3339),
		Verified:        true,
		Location:        "Berlin",
		URL:             "https://alice.example.com",
		PublicMetrics:   publicMetrics{FollowersCount: 5200, FollowingCount: 310, TweetCount: 4100, LikeCount: 9800},
	}
	bob := userData{
		ID:            "1002",
		Username:      "bob",
		Name:          "Bob",
		CreatedAt:     time.Now().AddDate(0, -2, 0).Format(time.RFC3339),
		PublicMetrics: publicMetrics{FollowersCount: 12, FollowingCount: 50, TweetCount: 3, LikeCount: 7},
	}
	state.users["alice"] = alice
	state.users["bob"] = bob

	state.tweets["1001"] = buildTweets("alice shipped the cache layer today", 40)
	state.tweets["1002"] = buildTweets("hello world from bob", 3)
}

func buildTweets(seedText string, n int) []tweetData {
	tweets := make([]tweetData, 0, n)
	for i := 0; i < n; i++ {
		tweets = append(tweets, tweetData{
			ID:        fmt.Sprintf("t%04d", i),
			Text:      fmt.Sprintf("%s (update %d)", seedText, i),
			CreatedAt: time.Now().AddDate(0, 0, -i).Format(time.RFC3339),
			PublicMetrics: tweetMetrics{
				LikeCount:    (i*7 + 3) % 120,
				RetweetCount: (i * 3) % 40,
				ReplyCount:   (i * 2) % 25,
			},
		})
	}
	return tweets
}

// consumeQuota decrements the rate-limit window and writes the standard
// headers. Returns false when the caller is out of quota.
func consumeQuota(w http.ResponseWriter) bool {
	state.mu.Lock()
	defer state.mu.Unlock()

	now := time.Now()
	if now.After(state.windowEnd) {
		state.remaining = cfg.RateLimit
		state.windowEnd = now.Add(time.Duration(cfg.RateLimitWindow) * time.Second)
	}

	if state.remaining > 0 {
		state.remaining--
	}

	w.Header().Set("x-rate-limit-limit", strconv.Itoa(cfg.RateLimit))
	w.Header().Set("x-rate-limit-remaining", strconv.Itoa(state.remaining))
	w.Header().Set("x-rate-limit-reset", strconv.FormatInt(state.windowEnd.Unix(), 10))

	if state.remaining == 0 {
		retryAfter := int(time.Until(state.windowEnd).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		return false
	}
	return true
}

func checkAuth(r *http.Request) bool {
	if cfg.BearerToken == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+cfg.BearerToken
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeAPIError(w http.ResponseWriter, status int, title, detail string) {
	writeJSON(w, status, map[string]any{
		"title":  title,
		"detail": detail,
		"status": status,
	})
}

func gate(w http.ResponseWriter, r *http.Request) bool {
	if cfg.ServiceBlocked {
		writeAPIError(w, http.StatusServiceUnavailable, "Service Unavailable", "mock outage enabled")
		return false
	}
	if !checkAuth(r) {
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized", "invalid bearer token")
		return false
	}
	if !consumeQuota(w) {
		writeAPIError(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
		return false
	}
	return true
}

// handleUserByUsername serves GET /2/users/by/username/{username}.
func handleUserByUsername(w http.ResponseWriter, r *http.Request) {
	if !gate(w, r) {
		return
	}

	username := strings.ToLower(strings.TrimPrefix(r.URL.Path, "/2/users/by/username/"))
	state.mu.Lock()
	user, ok := state.users[username]
	state.mu.Unlock()
	if !ok {
		// The real API reports unknown users inside the errors array
		// with a 200 status.
		writeJSON(w, http.StatusOK, map[string]any{
			"errors": []map[string]any{
				{
					"title":  "Not Found Error",
					"detail": fmt.Sprintf("Could not find user with username: [%s].", username),
					"value":  username,
				},
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": user})
}

// handleUserTweets serves GET /2/users/{id}/tweets.
func handleUserTweets(w http.ResponseWriter, r *http.Request) {
	if !gate(w, r) {
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "tweets" {
		http.NotFound(w, r)
		return
	}
	userID := parts[1]

	maxResults := 10
	if v := r.URL.Query().Get("max_results"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 5 && parsed <= 100 {
			maxResults = parsed
		}
	}

	state.mu.Lock()
	tweets := state.tweets[userID]
	state.mu.Unlock()

	if len(tweets) > maxResults {
		tweets = tweets[:maxResults]
	}
	if len(tweets) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"meta": map[string]any{"result_count": 0},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": tweets,
		"meta": map[string]any{"result_count": len(tweets)},
	})
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/2/users/by/username/", handleUserByUsername)
	mux.HandleFunc("/2/users/", handleUserTweets)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	addr := ":" + cfg.Port
	slog.Info("mock X API server listening",
		"address", addr,
		"rate_limit", cfg.RateLimit,
		"window_seconds", cfg.RateLimitWindow,
	)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBoolOrDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return fallback
}
