package ranker

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"digest/internal/domain"
)

// ErrSignalMismatch is returned when a signal slice does not cover every
// sentence.
var ErrSignalMismatch = errors.New("signal count does not match sentence count")

// Weights scales each built-in signal. The default is 1 for all five, which
// reproduces the plain unweighted sum.
type Weights struct {
	Lexical   float64
	Frequency float64
	Semantic  float64
	Position  float64
	Length    float64
}

// DefaultWeights returns unit weights.
func DefaultWeights() Weights {
	return Weights{Lexical: 1, Frequency: 1, Semantic: 1, Position: 1, Length: 1}
}

// Signals holds per-sentence lexical, frequency and semantic scores, indexed
// like the sentences passed to Rank.
type Signals struct {
	Lexical   []float64
	Frequency []float64
	Semantic  []float64
}

// Ranker combines per-sentence signals into one score and orders sentences.
type Ranker struct {
	weights Weights
	terms   []WeightedTerm
}

func New(weights Weights, terms ...WeightedTerm) *Ranker {
	return &Ranker{weights: weights, terms: terms}
}

// PositionScore favours earlier sentences: 1/(index+1).
func PositionScore(index int) float64 { return 1 / float64(index+1) }

// LengthScore rewards substantive sentences: wordCount/20, uncapped.
func LengthScore(text string) float64 { return float64(len(strings.Fields(text))) / 20 }

// Rank scores every sentence and sorts descending by score. Ties keep
// document order. Every input sentence appears exactly once in the output.
func (r *Ranker) Rank(sentences []domain.Sentence, sig Signals) ([]domain.RankedSentence, error) {
	n := len(sentences)
	if len(sig.Lexical) != n || len(sig.Frequency) != n || len(sig.Semantic) != n {
		return nil, fmt.Errorf("%w: %d sentences, lexical=%d frequency=%d semantic=%d",
			ErrSignalMismatch, n, len(sig.Lexical), len(sig.Frequency), len(sig.Semantic))
	}
	ranked := make([]domain.RankedSentence, n)
	for i, s := range sentences {
		signals := domain.Signals{
			Lexical:   sig.Lexical[i],
			Frequency: sig.Frequency[i],
			Semantic:  sig.Semantic[i],
			Position:  PositionScore(s.Index),
			Length:    LengthScore(s.Text),
		}
		score := r.weights.Lexical*signals.Lexical +
			r.weights.Frequency*signals.Frequency +
			r.weights.Semantic*signals.Semantic +
			r.weights.Position*signals.Position +
			r.weights.Length*signals.Length
		if len(r.terms) > 0 {
			signals.Extra = make(map[string]float64, len(r.terms))
			for _, t := range r.terms {
				v := t.Term.Score(s)
				signals.Extra[t.Term.Name()] = v
				score += t.Weight * v
			}
		}
		ranked[i] = domain.RankedSentence{Sentence: s, Signals: signals, Score: score}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked, nil
}
