package selector

import "digest/internal/domain"

// DefaultMaxSentences applies when the caller passes a non-positive cap.
const DefaultMaxSentences = 5

// minSummarySentences is the floor applied before the caller's cap.
const minSummarySentences = 3

// Length returns min(maxSentences, max(3, floor(count*0.2))), clamped to
// the number of sentences available.
func Length(sentenceCount, maxSentences int) int {
	if sentenceCount <= 0 {
		return 0
	}
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	desired := max(minSummarySentences, sentenceCount/5)
	return min(maxSentences, desired, sentenceCount)
}

// Top returns the first n ranked sentences.
func Top(ranked []domain.RankedSentence, n int) []domain.RankedSentence {
	if n <= 0 {
		return nil
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n:n]
}
