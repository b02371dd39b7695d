package tfidf

import (
	"context"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/floats"

	"digest/internal/lexical"
)

// DefaultDimension is the number of hash buckets used when none is set.
const DefaultDimension = 512

// Model is a hashed TF-IDF sentence encoder. IDF weights are learned from a
// background corpus at load time; terms the corpus never saw get the
// highest IDF. Term weights are folded into a fixed number of buckets and
// the result is L2-normalised.
type Model struct {
	idf        map[string]float64
	unseenIDF  float64
	dimension  int
	corpusSize int
}

// Name returns the identifier of this model.
func (m *Model) Name() string { return "tfidf" }

// CorpusSize returns the number of background documents the IDF table was
// learned from.
func (m *Model) CorpusSize() int { return m.corpusSize }

// Dimension returns the length of produced vectors.
func (m *Model) Dimension() int { return m.dimension }

// Embed encodes every text independently.
func (m *Model) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = m.vector(text)
	}
	return out, nil
}

func (m *Model) vector(text string) []float64 {
	vec := make([]float64, m.dimension)
	tokens := lexical.ContentTokens(text)
	if len(tokens) == 0 {
		return vec
	}
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	total := float64(len(tokens))
	for tok, count := range tf {
		h := xxhash.Sum64String(tok)
		idx := int(h % uint64(m.dimension))
		// Top bit picks the sign.
		sign := 1.0
		if h>>63 == 1 {
			sign = -1.0
		}
		vec[idx] += sign * float64(count) / total * m.idfOf(tok)
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

func (m *Model) idfOf(term string) float64 {
	if v, ok := m.idf[term]; ok {
		return v
	}
	return m.unseenIDF
}
