package lexical

// WordFrequency maps a lowercase token to its occurrence count across a
// whole document, stop words excluded. It is read-only once built.
type WordFrequency map[string]int

// BuildFrequency counts the content tokens of text.
func BuildFrequency(text string) WordFrequency {
	freq := WordFrequency{}
	for _, tok := range ContentTokens(text) {
		freq[tok]++
	}
	return freq
}

// SentenceScore is the mean document count of the sentence's tokens.
// Stop words and unseen tokens count as zero.
func (f WordFrequency) SentenceScore(sentence string) float64 {
	tokens := Tokens(sentence)
	if len(tokens) == 0 || len(f) == 0 {
		return 0
	}
	total := 0
	for _, tok := range tokens {
		total += f[tok]
	}
	return float64(total) / float64(len(tokens))
}
