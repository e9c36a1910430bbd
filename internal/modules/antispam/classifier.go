package antispam

import "strings"

// spamKeywords is the fixed heuristic list: commercial/scam terms plus raw
// link markers. Matching is case-insensitive substring presence.
var spamKeywords = []string{
	"купить", "продать", "заработок", "бинарные", "крипта",
	"казино", "ставки", "халява", "бесплатно", "реклама",
	"http://", "https://", "www.", ".ru", ".com",
	"прибыль", "инвестиции", "деньги", "быстро", "легко",
}

// spamThreshold: a score strictly above this is classified as spam.
const spamThreshold = 3

// Score computes the heuristic spam score of a text: one point per matched
// keyword, the raw link-marker count again when more than two links are
// present, and two points for runs of repeated terminal punctuation.
func Score(text string) int {
	lower := strings.ToLower(text)

	score := 0
	for _, keyword := range spamKeywords {
		if strings.Contains(lower, keyword) {
			score++
		}
	}

	linkCount := strings.Count(lower, "http://") +
		strings.Count(lower, "https://") +
		strings.Count(lower, "www.")
	if linkCount > 2 {
		score += linkCount
	}

	if strings.Contains(text, "!!!!!") || strings.Contains(text, "?????") || strings.Contains(text, "......") {
		score += 2
	}

	return score
}

// IsSpam reports whether the text crosses the spam threshold. Heuristic only;
// false positives and negatives are expected.
func IsSpam(text string) bool {
	return Score(text) > spamThreshold
}
