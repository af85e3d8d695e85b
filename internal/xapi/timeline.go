package xapi

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/yigitech/x-wrapped/internal/types"
)

// Timeline sample bounds imposed by the upstream API.
const (
	minSampleSize = 5
	maxSampleSize = 100
)

// timelineResponse is the X API v2 user tweets envelope.
type timelineResponse struct {
	Data []struct {
		ID            string    `json:"id"`
		Text          string    `json:"text"`
		CreatedAt     time.Time `json:"created_at"`
		PublicMetrics struct {
			RetweetCount int `json:"retweet_count"`
			ReplyCount   int `json:"reply_count"`
			LikeCount    int `json:"like_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// FetchRecentPosts fetches the most recent original posts for a profile ID.
// Reposts and pure replies are excluded upstream. The limit is clamped to
// the API's allowed range.
func (c *Client) FetchRecentPosts(ctx context.Context, profileID string, limit int) ([]types.RawPost, RateLimitInfo, error) {
	if limit < minSampleSize {
		limit = minSampleSize
	}
	if limit > maxSampleSize {
		limit = maxSampleSize
	}

	query := url.Values{}
	query.Set("max_results", strconv.Itoa(limit))
	query.Set("tweet.fields", "public_metrics,created_at")
	query.Set("exclude", "retweets,replies")

	var resp timelineResponse
	limits, err := c.get(ctx, "user_timeline", "/2/users/"+url.PathEscape(profileID)+"/tweets", query, &resp)
	if err != nil {
		return nil, limits, err
	}

	posts := make([]types.RawPost, 0, len(resp.Data))
	for _, tweet := range resp.Data {
		posts = append(posts, types.RawPost{
			ID:        tweet.ID,
			Text:      tweet.Text,
			CreatedAt: tweet.CreatedAt,
			Likes:     tweet.PublicMetrics.LikeCount,
			Reposts:   tweet.PublicMetrics.RetweetCount,
			Replies:   tweet.PublicMetrics.ReplyCount,
		})
	}
	return posts, limits, nil
}
