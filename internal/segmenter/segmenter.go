package segmenter

import (
	"regexp"
	"strings"
	"unicode"

	"digest/internal/domain"
)

// Segmenter splits text into sentences terminated by runs of '.', '!' or '?'.
// Abbreviations are not special-cased.
type Segmenter struct {
	splitter *regexp.Regexp
}

func New() *Segmenter {
	return &Segmenter{splitter: regexp.MustCompile(`[^.!?]+[.!?]+`)}
}

// Split returns the sentences of text in document order. A trailing
// fragment without a terminator is kept when it carries word content.
func (s *Segmenter) Split(text string) []domain.Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []domain.Sentence
	add := func(raw string) {
		sent := strings.TrimSpace(raw)
		if !hasWordContent(sent) {
			return
		}
		out = append(out, domain.Sentence{Index: len(out), Text: sent})
	}
	end := 0
	for _, loc := range s.splitter.FindAllStringIndex(text, -1) {
		add(text[loc[0]:loc[1]])
		end = loc[1]
	}
	if end < len(text) {
		add(text[end:])
	}
	return out
}

// Texts returns the sentence strings of ss.
func Texts(ss []domain.Sentence) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Text
	}
	return out
}

func hasWordContent(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
