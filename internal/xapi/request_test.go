package xapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitech/x-wrapped/internal/types"
)

const testToken = "test-bearer-token"

func newProfileServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, testToken)
}

func writeRateLimitHeaders(w http.ResponseWriter, remaining int, resetAt time.Time) {
	w.Header().Set("x-rate-limit-limit", "75")
	w.Header().Set("x-rate-limit-remaining", fmt.Sprintf("%d", remaining))
	w.Header().Set("x-rate-limit-reset", fmt.Sprintf("%d", resetAt.Unix()))
}

func profileBody(username string) string {
	return fmt.Sprintf(`{
		"data": {
			"id": "1001",
			"name": "Alice Example",
			"username": %q,
			"created_at": "2020-01-15T10:00:00.000Z",
			"description": "hello world",
			"location": "Wonderland",
			"profile_image_url": "https://img.example/a.png",
			"verified": true,
			"public_metrics": {
				"followers_count": 2500,
				"following_count": 300,
				"tweet_count": 100,
				"like_count": 4000
			}
		}
	}`, username)
}

func TestFetchProfile_Success(t *testing.T) {
	reset := time.Now().Add(15 * time.Minute)
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "/2/users/by/username/alice", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("user.fields"), "public_metrics")
		writeRateLimitHeaders(w, 42, reset)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, profileBody("alice"))
	})

	profile, limits, err := client.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "1001", profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Alice Example", profile.Name)
	assert.True(t, profile.Verified)
	assert.Equal(t, 2500, profile.FollowerCount)
	assert.Equal(t, 100, profile.PostCount)
	assert.Equal(t, 2020, profile.CreatedAt.Year())

	assert.True(t, limits.Present)
	assert.Equal(t, 42, limits.Remaining)
	assert.Equal(t, 75, limits.Limit)
	assert.Equal(t, reset.Unix(), limits.ResetAt.Unix())
}

func TestFetchProfile_NotFoundViaErrorsArray(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeRateLimitHeaders(w, 41, time.Now().Add(time.Minute))
		fmt.Fprint(w, `{"errors":[{"title":"Not Found Error","detail":"no user"}]}`)
	})

	_, limits, err := client.FetchProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.True(t, limits.Present, "rate limit metadata still parsed on failure")
}

func TestFetchProfile_NotFoundViaStatus(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeRateLimitHeaders(w, 40, time.Now().Add(time.Minute))
		w.WriteHeader(http.StatusNotFound)
	})

	_, _, err := client.FetchProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFetchProfile_RateLimited(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeRateLimitHeaders(w, 0, time.Now().Add(10*time.Minute))
		w.Header().Set("Retry-After", "600")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, limits, err := client.FetchProfile(context.Background(), "alice")

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 600*time.Second, rlErr.RetryAfter)
	assert.True(t, limits.Present)
	assert.Equal(t, 0, limits.Remaining)
}

func TestFetchProfile_RateLimitedWithoutRetryAfterHeader(t *testing.T) {
	reset := time.Now().Add(5 * time.Minute)
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeRateLimitHeaders(w, 0, reset)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, err := client.FetchProfile(context.Background(), "alice")

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Greater(t, rlErr.RetryAfter, 4*time.Minute, "falls back to the reset header")
}

func TestFetchProfile_ServerError(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"detail":"vendor internals"}`)
	})

	_, _, err := client.FetchProfile(context.Background(), "alice")

	var upErr *types.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusInternalServerError, upErr.StatusCode)
	assert.NotContains(t, upErr.Message, "vendor internals", "message is sanitized")
}

func TestFetchProfile_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections
	client := NewClient(server.URL, testToken)

	_, limits, err := client.FetchProfile(context.Background(), "alice")

	var upErr *types.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.False(t, limits.Present, "no metadata on transport failure")
}

func TestFetchRecentPosts_Success(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/1001/tweets", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("max_results"))
		assert.Equal(t, "retweets,replies", r.URL.Query().Get("exclude"))
		writeRateLimitHeaders(w, 30, time.Now().Add(time.Minute))
		fmt.Fprint(w, `{
			"data": [
				{"id":"t1","text":"first post","created_at":"2026-07-01T09:00:00.000Z",
				 "public_metrics":{"retweet_count":2,"reply_count":1,"like_count":10}},
				{"id":"t2","text":"second post","created_at":"2026-07-02T09:00:00.000Z",
				 "public_metrics":{"retweet_count":0,"reply_count":0,"like_count":3}}
			]
		}`)
	})

	posts, limits, err := client.FetchRecentPosts(context.Background(), "1001", 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "first post", posts[0].Text)
	assert.Equal(t, 10, posts[0].Likes)
	assert.Equal(t, 2, posts[0].Reposts)
	assert.Equal(t, 1, posts[0].Replies)
	assert.Equal(t, 30, limits.Remaining)
}

func TestFetchRecentPosts_ClampsSampleSize(t *testing.T) {
	var gotMax string
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMax = r.URL.Query().Get("max_results")
		writeRateLimitHeaders(w, 30, time.Now().Add(time.Minute))
		fmt.Fprint(w, `{"data":[]}`)
	})

	_, _, err := client.FetchRecentPosts(context.Background(), "1001", 1)
	require.NoError(t, err)
	assert.Equal(t, "5", gotMax)

	_, _, err = client.FetchRecentPosts(context.Background(), "1001", 500)
	require.NoError(t, err)
	assert.Equal(t, "100", gotMax)
}

func TestFetchRecentPosts_EmptyTimeline(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeRateLimitHeaders(w, 30, time.Now().Add(time.Minute))
		fmt.Fprint(w, `{"meta":{"result_count":0}}`)
	})

	posts, _, err := client.FetchRecentPosts(context.Background(), "1001", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestParseRateLimitHeaders_MissingHeaders(t *testing.T) {
	info := parseRateLimitHeaders(http.Header{})
	assert.False(t, info.Present)
}

func TestParseRateLimitHeaders_Garbage(t *testing.T) {
	h := http.Header{}
	h.Set("x-rate-limit-remaining", "lots")
	info := parseRateLimitHeaders(h)
	assert.False(t, info.Present)
}

func TestGet_ContextCancellation(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := client.FetchProfile(ctx, "alice")
	require.Error(t, err)

	var upErr *types.UpstreamError
	assert.True(t, errors.As(err, &upErr), "timeouts surface as upstream errors")
}
