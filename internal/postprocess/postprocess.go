package postprocess

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTransitions are the connectives prepended to every sentence after
// the first, chosen by position modulo their count.
var DefaultTransitions = []string{"Moreover", "Furthermore", "Additionally", "In addition"}

var markerPattern = regexp.MustCompile(`\[\d+\]`)

// Processor turns selected sentences into the final summary prose.
type Processor struct {
	transitions []string
}

// New returns a Processor using transitions, or DefaultTransitions when
// none are given.
func New(transitions []string) *Processor {
	var ts []string
	for _, t := range transitions {
		if t = strings.TrimSpace(t); t != "" {
			ts = append(ts, t)
		}
	}
	if len(ts) == 0 {
		ts = DefaultTransitions
	}
	return &Processor{transitions: ts}
}

// Process deduplicates, strips reference markers, capitalizes, inserts
// transitions and joins with single spaces. Empty input yields "".
func (p *Processor) Process(sentences []string) string {
	cleaned := make([]string, 0, len(sentences))
	for _, s := range Dedupe(sentences) {
		s = Capitalize(StripMarkers(s))
		if s == "" {
			continue
		}
		cleaned = append(cleaned, s)
	}
	for i := 1; i < len(cleaned); i++ {
		cleaned[i] = p.transitions[i%len(p.transitions)] + ", " + Capitalize(cleaned[i])
	}
	return strings.Join(cleaned, " ")
}

// Dedupe drops exact duplicates, keeping the first occurrence and order.
func Dedupe(sentences []string) []string {
	seen := make(map[string]struct{}, len(sentences))
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// StripMarkers removes bracketed numeric references like "[12]" and trims.
func StripMarkers(s string) string {
	return strings.TrimSpace(markerPattern.ReplaceAllString(s, ""))
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
