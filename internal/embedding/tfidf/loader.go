package tfidf

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"digest/internal/embedding"
	"digest/internal/lexical"
)

//go:embed data/corpus.txt
var defaultCorpus []byte

// Loader builds a Model from background corpus files. Every non-empty line
// of a corpus file is one document. With no paths the embedded corpus is
// used.
type Loader struct {
	CorpusPaths []string
	Dimension   int
}

var _ embedding.Loader = (*Loader)(nil)

// Load reads the corpus and computes smoothed IDF values.
func (l *Loader) Load(ctx context.Context) (embedding.Model, error) {
	dim := l.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}
	var docs []string
	if len(l.CorpusPaths) == 0 {
		docs = readLines(defaultCorpus)
	}
	for _, p := range l.CorpusPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read corpus %s: %w", p, err)
		}
		docs = append(docs, readLines(data)...)
	}
	return Prepare(docs, dim)
}

// Prepare builds a Model directly from in-memory documents.
func Prepare(corpus []string, dimension int) (*Model, error) {
	if len(corpus) == 0 {
		return nil, errors.New("empty corpus for TF-IDF prepare")
	}
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range lexical.ContentTokens(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, errors.New("no tokens found in corpus")
	}
	n := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		// Smoothed IDF
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1.0
	}
	return &Model{
		idf:        idf,
		unseenIDF:  math.Log(1+n) + 1.0,
		dimension:  dimension,
		corpusSize: len(corpus),
	}, nil
}

func readLines(data []byte) []string {
	var out []string
	scan := bufio.NewScanner(bytes.NewReader(data))
	scan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
