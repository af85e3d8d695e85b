// Package stats turns a raw profile and its recent posts into the aggregated
// analytics result. Everything here is a pure function of its inputs: the
// same (profile, posts, now) always produces the same output.
package stats

import (
	"math"
	"time"

	"github.com/yigitech/x-wrapped/internal/types"
)

// bestPostScore is the weighted engagement score used to pick the best post.
func bestPostScore(p types.RawPost) int {
	return p.Likes + 2*p.Reposts + p.Replies
}

// Aggregate computes the full analytics result for a profile and its fetched
// post sample. The post total comes from the profile's own counter, not the
// sample size, because the sample is capped.
func Aggregate(profile types.RawProfile, posts []types.RawPost, now time.Time) types.AggregatedStats {
	totals := types.Totals{Posts: profile.PostCount}

	var best *types.BestPost
	bestScore := -1
	texts := make([]string, 0, len(posts))

	for _, post := range posts {
		totals.Likes += post.Likes
		totals.Reposts += post.Reposts
		totals.Replies += post.Replies
		texts = append(texts, post.Text)

		// Strictly greater keeps the first-encountered post on ties.
		if score := bestPostScore(post); score > bestScore {
			bestScore = score
			best = &types.BestPost{
				Content: post.Text,
				Likes:   post.Likes,
				Reposts: post.Reposts,
				Replies: post.Replies,
				Date:    post.CreatedAt,
				Score:   score,
			}
		}
	}

	accountAgeDays := int(now.Sub(profile.CreatedAt) / (24 * time.Hour))
	if accountAgeDays < 0 {
		accountAgeDays = 0
	}

	var postsPerDay float64
	if accountAgeDays > 0 {
		postsPerDay = round2(float64(profile.PostCount) / float64(accountAgeDays))
	}

	var engagementRate float64
	if profile.PostCount > 0 {
		engagement := totals.Likes + totals.Reposts + totals.Replies
		engagementRate = round2(float64(engagement) / float64(profile.PostCount))
	}

	score := Score(profile.FollowerCount, totals.Likes, profile.PostCount)

	return types.AggregatedStats{
		Handle:         profile.Username,
		Name:           profile.Name,
		AvatarURL:      profile.AvatarURL,
		Bio:            profile.Bio,
		Verified:       profile.Verified,
		Location:       profile.Location,
		URL:            profile.URL,
		JoinDate:       profile.CreatedAt,
		Followers:      profile.FollowerCount,
		Following:      profile.FollowingCount,
		Totals:         totals,
		BestPost:       best,
		TopWords:       TopWords(texts, MaxTopWords),
		Score:          score,
		Tier:           Tier(score),
		AccountAgeDays: accountAgeDays,
		EngagementRate: engagementRate,
		PostsPerDay:    postsPerDay,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
