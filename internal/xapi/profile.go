package xapi

import (
	"context"
	"net/url"
	"time"

	"github.com/yigitech/x-wrapped/internal/types"
)

// userResponse is the X API v2 user lookup envelope.
type userResponse struct {
	Data *struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Username        string    `json:"username"`
		CreatedAt       time.Time `json:"created_at"`
		Description     string    `json:"description"`
		Location        string    `json:"location"`
		ProfileImageURL string    `json:"profile_image_url"`
		URL             string    `json:"url"`
		Verified        bool      `json:"verified"`
		PublicMetrics   struct {
			FollowersCount int `json:"followers_count"`
			FollowingCount int `json:"following_count"`
			TweetCount     int `json:"tweet_count"`
			LikeCount      int `json:"like_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// FetchProfile looks up a public profile by handle. The handle must already
// be normalized (no leading "@"). Returns types.ErrNotFound for unknown
// handles; rate-limit metadata is returned on success and failure alike.
func (c *Client) FetchProfile(ctx context.Context, handle string) (types.RawProfile, RateLimitInfo, error) {
	query := url.Values{}
	query.Set("user.fields", "public_metrics,description,profile_image_url,created_at,verified,location,url")

	var resp userResponse
	limits, err := c.get(ctx, "user_by_username", "/2/users/by/username/"+url.PathEscape(handle), query, &resp)
	if err != nil {
		return types.RawProfile{}, limits, err
	}

	// The API reports unknown handles as a 200 with an errors array.
	if resp.Data == nil {
		return types.RawProfile{}, limits, types.ErrNotFound
	}

	profile := types.RawProfile{
		ID:             resp.Data.ID,
		Username:       resp.Data.Username,
		Name:           resp.Data.Name,
		AvatarURL:      resp.Data.ProfileImageURL,
		Bio:            resp.Data.Description,
		Verified:       resp.Data.Verified,
		Location:       resp.Data.Location,
		URL:            resp.Data.URL,
		CreatedAt:      resp.Data.CreatedAt,
		PostCount:      resp.Data.PublicMetrics.TweetCount,
		LikeCount:      resp.Data.PublicMetrics.LikeCount,
		FollowerCount:  resp.Data.PublicMetrics.FollowersCount,
		FollowingCount: resp.Data.PublicMetrics.FollowingCount,
	}
	return profile, limits, nil
}
