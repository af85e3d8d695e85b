package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Weights(t *testing.T) {
	// followers*2 + likes*0.5 + posts*1
	assert.Equal(t, 0, Score(0, 0, 0))
	assert.Equal(t, 2250, Score(1000, 100, 200))
	assert.Equal(t, 2, Score(1, 1, 0), "fractional part floors")
}

func TestScore_NeverNegativeForValidInput(t *testing.T) {
	assert.GreaterOrEqual(t, Score(0, 0, 0), 0)
	assert.GreaterOrEqual(t, Score(0, 1, 0), 0)
}

func TestTier_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		tier  string
	}{
		{100000, "X Legend"}, // threshold is inclusive
		{99999, "Influencer"},
		{50000, "Influencer"},
		{49999, "Rising Star"},
		{20000, "Rising Star"},
		{19999, "Active Voice"},
		{5000, "Active Voice"},
		{4999, "Explorer"},
		{0, "Explorer"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, Tier(tt.score), "score %d", tt.score)
	}
}

func TestTier_Exhaustive(t *testing.T) {
	// Every non-negative score classifies to some tier.
	for _, score := range []int{0, 1, 4999, 5000, 123456, 1 << 30} {
		assert.NotEmpty(t, Tier(score))
	}
}
