package db

import "time"

// LookupRecord is one successful, non-cached profile aggregation. Records
// back the leaderboard view; they are written best-effort after each fresh
// fetch and never consulted by the cache path.
type LookupRecord struct {
	ID uint `gorm:"primaryKey"`

	// Handle is the normalized profile handle that was looked up.
	Handle string `gorm:"column:handle;type:varchar(255);not null;index"`

	// Score and Tier as classified at fetch time.
	Score int    `gorm:"column:score;not null;index"`
	Tier  string `gorm:"column:tier;type:varchar(64);not null"`

	// Followers at fetch time, kept for display alongside the score.
	Followers int `gorm:"column:followers;not null"`

	// FetchedAt is when the upstream fetch completed.
	FetchedAt time.Time `gorm:"column:fetched_at;not null;index"`
}
