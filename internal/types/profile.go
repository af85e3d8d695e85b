package types

import "time"

// RawProfile is a public X profile as returned by the upstream API.
type RawProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"profile_image_url"`
	Bio       string    `json:"description"`
	Verified  bool      `json:"verified"`
	Location  string    `json:"location"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`

	// Public counters from the profile itself. PostCount is the lifetime
	// total, not the size of any fetched timeline sample.
	PostCount      int `json:"post_count"`
	LikeCount      int `json:"like_count"`
	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`
}

// RawPost is a single post from the profile's recent timeline.
type RawPost struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
	Reposts   int       `json:"reposts"`
	Replies   int       `json:"replies"`
}

// Totals sums engagement counters across the fetched sample. Posts is the
// profile's lifetime post count.
type Totals struct {
	Posts   int `json:"posts"`
	Likes   int `json:"likes"`
	Reposts int `json:"reposts"`
	Replies int `json:"replies"`
}

// BestPost is the fetched post with the highest weighted engagement score.
type BestPost struct {
	Content string    `json:"content"`
	Likes   int       `json:"likes"`
	Reposts int       `json:"reposts"`
	Replies int       `json:"replies"`
	Date    time.Time `json:"date"`
	Score   int       `json:"score"`
}

// WordCount is one entry of the top-words ranking.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AggregatedStats is the canonical analytics result for a handle.
// It is immutable once computed and is cached as-is.
type AggregatedStats struct {
	Handle    string    `json:"handle"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"profileImage"`
	Bio       string    `json:"description"`
	Verified  bool      `json:"verified"`
	Location  string    `json:"location,omitempty"`
	URL       string    `json:"url,omitempty"`
	JoinDate  time.Time `json:"joinDate"`

	Followers int `json:"followers"`
	Following int `json:"following"`

	Totals   Totals      `json:"totals"`
	BestPost *BestPost   `json:"bestPost"`
	TopWords []WordCount `json:"topWords"`

	Score int    `json:"score"`
	Tier  string `json:"tier"`

	AccountAgeDays int     `json:"accountAgeDays"`
	EngagementRate float64 `json:"engagementRate"`
	PostsPerDay    float64 `json:"postsPerDay"`
}

// NormalizeHandle strips a single leading "@" from a handle. Case is
// preserved; the normalized form is the cache key.
func NormalizeHandle(handle string) string {
	if len(handle) > 0 && handle[0] == '@' {
		return handle[1:]
	}
	return handle
}
