// Package similarity scores sentences by semantic closeness to a reference
// sentence taken from the structural midpoint of the document.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptySentence     = errors.New("cannot embed an empty sentence")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Embedder embeds a batch of sentences, one vector per input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Scorer computes cosine similarity against the reference sentence.
type Scorer struct {
	embedder Embedder
}

func NewScorer(embedder Embedder) *Scorer {
	return &Scorer{embedder: embedder}
}

// ReferenceIndex returns floor(n/2).
func ReferenceIndex(n int) int { return n / 2 }

// Score embeds every sentence in one batch and returns, per sentence, its
// cosine similarity to the reference. The reference itself scores 1.
func (s *Scorer) Score(ctx context.Context, sentences []string) ([]float64, error) {
	if len(sentences) == 0 {
		return nil, nil
	}
	for i, sent := range sentences {
		if strings.TrimSpace(sent) == "" {
			return nil, fmt.Errorf("sentence %d: %w", i, ErrEmptySentence)
		}
	}
	vectors, err := s.embedder.Embed(ctx, sentences)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("got %d embeddings for %d sentences", len(vectors), len(sentences))
	}
	ref := ReferenceIndex(len(sentences))
	reference := vectors[ref]
	scores := make([]float64, len(sentences))
	for i, v := range vectors {
		if i == ref {
			scores[i] = 1
			continue
		}
		sim, err := Cosine(v, reference)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		scores[i] = sim
	}
	return scores, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either has
// zero norm.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return floats.Dot(a, b) / (na * nb), nil
}
