package stats

import (
	"strings"

	"github.com/yigitech/x-wrapped/internal/types"
)

// MaxTopWords caps the top-words ranking length.
const MaxTopWords = 6

// stopWords are common filler words excluded from the ranking.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"have": {}, "from": {}, "your": {}, "just": {}, "like": {}, "will": {},
	"what": {}, "when": {}, "about": {}, "they": {}, "them": {}, "then": {},
	"than": {}, "there": {}, "been": {}, "were": {}, "their": {},
}

// TopWords extracts the most frequent meaningful words across the given
// texts. Mentions, hashtags, links, short tokens and stop words are dropped.
// Ordering is by descending count; ties keep first-occurrence order, so the
// result is deterministic for identical input.
func TopWords(texts []string, max int) []types.WordCount {
	counts := make(map[string]int)
	var order []string

	for _, text := range texts {
		for _, token := range strings.Fields(strings.ToLower(text)) {
			if strings.HasPrefix(token, "@") ||
				strings.HasPrefix(token, "#") ||
				strings.HasPrefix(token, "http") {
				continue
			}
			word := strings.Trim(token, ".,!?;:'\"()[]{}<>…“”‘’")
			if len([]rune(word)) < 3 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	// Stable selection sort over the first-occurrence order keeps the
	// tie-break deterministic without a full sort package dance.
	result := make([]types.WordCount, 0, max)
	used := make(map[string]struct{}, max)
	for len(result) < max {
		bestWord := ""
		bestCount := 0
		for _, word := range order {
			if _, taken := used[word]; taken {
				continue
			}
			if counts[word] > bestCount {
				bestWord = word
				bestCount = counts[word]
			}
		}
		if bestWord == "" {
			break
		}
		used[bestWord] = struct{}{}
		result = append(result, types.WordCount{Word: bestWord, Count: bestCount})
	}
	return result
}
