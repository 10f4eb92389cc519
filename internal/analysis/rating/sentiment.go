package rating

import "strings"

// Sentiment keyword vocabularies. Matching is case-insensitive substring
// presence; one headline can match both classes.
var (
	positiveWords = []string{"growth", "profit", "beat", "upgrade", "bullish", "gain"}
	negativeWords = []string{"loss", "decline", "downgrade", "bearish", "concern", "warning"}
)

// SentimentTally counts headlines containing positive and negative keywords.
// A headline increments each class at most once, and may increment both.
func SentimentTally(headlines []string) (positive, negative int) {
	for _, h := range headlines {
		lower := strings.ToLower(h)
		if containsAny(lower, positiveWords) {
			positive++
		}
		if containsAny(lower, negativeWords) {
			negative++
		}
	}
	return positive, negative
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
