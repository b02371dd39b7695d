package lexical

import "math"

// Corpus scores each sentence of a single document as its own
// pseudo-document. It is built per call and never cached.
type Corpus struct {
	docs      []map[string]int
	sentences []string
	df        map[string]int
}

// NewCorpus builds term counts for every sentence, stop words removed.
func NewCorpus(sentences []string) *Corpus {
	c := &Corpus{
		docs:      make([]map[string]int, len(sentences)),
		sentences: sentences,
		df:        make(map[string]int),
	}
	for i, sent := range sentences {
		tf := make(map[string]int)
		for _, tok := range ContentTokens(sent) {
			tf[tok]++
		}
		for tok := range tf {
			c.df[tok]++
		}
		c.docs[i] = tf
	}
	return c
}

// Len returns the number of pseudo-documents.
func (c *Corpus) Len() int { return len(c.docs) }

// IDF returns 1 + ln(N / (1 + df(term))).
func (c *Corpus) IDF(term string) float64 {
	if len(c.docs) == 0 {
		return 0
	}
	return 1 + math.Log(float64(len(c.docs))/float64(1+c.df[term]))
}

// Score returns the TF-IDF of sentence i against its own pseudo-document:
// the sum over its tokens (repeats included) of tf(term, i) * idf(term).
func (c *Corpus) Score(i int) float64 {
	if i < 0 || i >= len(c.docs) {
		return 0
	}
	doc := c.docs[i]
	score := 0.0
	for _, tok := range Tokens(c.sentences[i]) {
		tf := doc[tok]
		if tf == 0 {
			continue
		}
		score += float64(tf) * c.IDF(tok)
	}
	return score
}

// Scores returns Score for every sentence in order.
func (c *Corpus) Scores() []float64 {
	out := make([]float64, len(c.docs))
	for i := range c.docs {
		out[i] = c.Score(i)
	}
	return out
}
