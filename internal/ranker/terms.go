package ranker

import (
	"fmt"
	"strings"

	"digest/internal/domain"
)

// Term is an optional scoring signal added on top of the built-in five.
type Term interface {
	Name() string
	Score(s domain.Sentence) float64
}

// WeightedTerm pairs a Term with its multiplier.
type WeightedTerm struct {
	Term   Term
	Weight float64
}

// TopicTerm favours definitional sentences and the opening sentence.
type TopicTerm struct{}

var topicIndicators = []string{"is", "was", "are", "were", "refers to", "defined as", "can be described as"}

func (TopicTerm) Name() string { return "topic" }

// Score is 2 when the sentence contains a definition indicator, plus 3 for
// the first sentence.
func (TopicTerm) Score(s domain.Sentence) float64 {
	score := 0.0
	if containsPhrase(s.Text, topicIndicators) {
		score += 2
	}
	if s.Index == 0 {
		score += 3
	}
	return score
}

// BiographicalTerm favours sentences carrying biographical facts.
type BiographicalTerm struct{}

var bioKeywords = []string{
	"born", "birth", "died", "death", "age", "founded", "established", "created",
	"invented", "discovered", "developed", "introduced", "is a", "was a", "known for", "famous for",
}

func (BiographicalTerm) Name() string { return "biographical" }

// Score is 3 when any biographical keyword occurs.
func (BiographicalTerm) Score(s domain.Sentence) float64 {
	if containsPhrase(s.Text, bioKeywords) {
		return 3
	}
	return 0
}

// TermByName resolves a configured term name.
func TermByName(name string) (Term, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "topic":
		return TopicTerm{}, nil
	case "biographical", "bio":
		return BiographicalTerm{}, nil
	default:
		return nil, fmt.Errorf("unknown ranking term: %s", name)
	}
}

// containsPhrase matches whole words, so "is" does not fire inside "this".
func containsPhrase(text string, phrases []string) bool {
	padded := " " + strings.Join(strings.FieldsFunc(strings.ToLower(text), isSeparator), " ") + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
}
