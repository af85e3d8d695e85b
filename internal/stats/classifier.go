package stats

import "math"

// Score weights: followers x2, total likes x0.5, lifetime posts x1. These are
// fixed policy, not configuration; changing them changes every user's tier.
func Score(followers, totalLikes, totalPosts int) int {
	return int(math.Floor(float64(followers)*2 + float64(totalLikes)*0.5 + float64(totalPosts)))
}

// tierTable maps score thresholds to tier labels, highest first. Thresholds
// are inclusive; a score below every threshold gets the base tier.
var tierTable = []struct {
	Min  int
	Name string
}{
	{100000, "X Legend"},
	{50000, "Influencer"},
	{20000, "Rising Star"},
	{5000, "Active Voice"},
}

const baseTier = "Explorer"

// Tier classifies a score against the fixed threshold table.
func Tier(score int) string {
	for _, tier := range tierTable {
		if score >= tier.Min {
			return tier.Name
		}
	}
	return baseTier
}
