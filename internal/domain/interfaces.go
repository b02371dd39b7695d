package domain

import "context"

// Document represents a single text file loaded into the system.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Sentence is one segmented unit of a document. Index is the 0-based
// position of its first appearance.
type Sentence struct {
	Index int
	Text  string
}

// Signals is the per-sentence breakdown of the ranking score.
type Signals struct {
	Lexical   float64
	Frequency float64
	Semantic  float64
	Position  float64
	Length    float64
	Extra     map[string]float64
}

// RankedSentence is a sentence with its combined score.
type RankedSentence struct {
	Sentence
	Signals Signals
	Score   float64
}

// Summary is the detailed result of one summarization call.
type Summary struct {
	Text          string
	SentenceCount int
	Ranked        []RankedSentence
	Selected      []RankedSentence
}

// DocumentSummary pairs a document with its summary.
type DocumentSummary struct {
	Document Document
	Summary  *Summary
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxSentences int) (string, error)
}

// Analyzer returns the full ranking detail along with the summary text.
type Analyzer interface {
	Analyze(ctx context.Context, text string, maxSentences int) (*Summary, error)
}
