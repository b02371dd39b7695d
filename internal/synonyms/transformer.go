package synonyms

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"digest/internal/lexical"
)

const (
	defaultMinWordLength      = 4
	defaultPreferredMaxLength = 7
)

// Options tunes the Transformer. Zero values select the defaults: words
// shorter than 4 characters are left alone and candidates up to 7
// characters are preferred.
type Options struct {
	MinWordLength      int
	PreferredMaxLength int
}

// Transformer swaps words for simpler synonyms.
type Transformer struct {
	source       Source
	minWordLen   int
	preferredLen int
}

func NewTransformer(source Source, opts Options) *Transformer {
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = defaultMinWordLength
	}
	if opts.PreferredMaxLength <= 0 {
		opts.PreferredMaxLength = defaultPreferredMaxLength
	}
	return &Transformer{source: source, minWordLen: opts.MinWordLength, preferredLen: opts.PreferredMaxLength}
}

// Choose returns the first candidate no longer than preferredMaxLen, else
// the first candidate. It reports false when there are no candidates.
func Choose(candidates []string, preferredMaxLen int) (string, bool) {
	for _, c := range candidates {
		if c != "" && utf8.RuneCountInString(c) <= preferredMaxLen {
			return c, true
		}
	}
	for _, c := range candidates {
		if c != "" {
			return c, true
		}
	}
	return "", false
}

// Rewrite replaces each space-separated word that is long enough and not a
// stop word with its chosen synonym. Surrounding punctuation is kept and
// the replacement takes the case of the replaced word's first letter.
func (t *Transformer) Rewrite(sentence string) string {
	if t == nil || t.source == nil {
		return sentence
	}
	words := strings.Split(sentence, " ")
	for i, w := range words {
		words[i] = t.rewriteWord(w)
	}
	return strings.Join(words, " ")
}

func (t *Transformer) rewriteWord(word string) string {
	start := strings.IndexFunc(word, isWordRune)
	if start < 0 {
		return word
	}
	end := strings.LastIndexFunc(word, isWordRune)
	_, size := utf8.DecodeRuneInString(word[end:])
	end += size
	core := word[start:end]

	if utf8.RuneCountInString(core) < t.minWordLen {
		return word
	}
	lower := strings.ToLower(core)
	if lexical.IsStopWord(lower) {
		return word
	}
	entry, ok := t.source.Lookup(lower)
	if !ok {
		return word
	}
	syn, ok := Choose(entry.Candidates(), t.preferredLen)
	if !ok {
		return word
	}
	return word[:start] + matchCase(syn, core) + word[end:]
}

// matchCase gives syn the case of ref's first letter.
func matchCase(syn, ref string) string {
	first, _ := utf8.DecodeRuneInString(ref)
	r, size := utf8.DecodeRuneInString(syn)
	if unicode.IsUpper(first) {
		return string(unicode.ToUpper(r)) + syn[size:]
	}
	return string(unicode.ToLower(r)) + syn[size:]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
