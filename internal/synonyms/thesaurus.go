package synonyms

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/thesaurus.yaml
var builtinThesaurus []byte

// Entry is the synonym record for one word, split by part of speech.
type Entry struct {
	Nouns []string `yaml:"n,omitempty"`
	Verbs []string `yaml:"v,omitempty"`
}

// Candidates returns the noun synonyms when the entry has any, otherwise
// the verb synonyms.
func (e Entry) Candidates() []string {
	if len(e.Nouns) > 0 {
		return e.Nouns
	}
	return e.Verbs
}

// Source looks up synonyms for a lowercase word. The boolean is false when
// the word has no entry.
type Source interface {
	Lookup(word string) (Entry, bool)
}

// Thesaurus is an in-memory Source.
type Thesaurus struct {
	entries map[string]Entry
}

var _ Source = (*Thesaurus)(nil)

// NewThesaurus builds a Thesaurus from entries keyed by word.
func NewThesaurus(entries map[string]Entry) *Thesaurus {
	t := &Thesaurus{entries: make(map[string]Entry, len(entries))}
	for w, e := range entries {
		t.entries[strings.ToLower(w)] = e
	}
	return t
}

// LoadBuiltin parses the thesaurus compiled into the binary.
func LoadBuiltin() (*Thesaurus, error) {
	return Parse(builtinThesaurus)
}

// LoadFile parses a YAML thesaurus from disk.
func LoadFile(path string) (*Thesaurus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse thesaurus %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML document mapping words to {n: [...], v: [...]}.
func Parse(data []byte) (*Thesaurus, error) {
	var entries map[string]Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return NewThesaurus(entries), nil
}

// Lookup implements Source.
func (t *Thesaurus) Lookup(word string) (Entry, bool) {
	e, ok := t.entries[word]
	return e, ok
}

// Len returns the number of words with an entry.
func (t *Thesaurus) Len() int { return len(t.entries) }
