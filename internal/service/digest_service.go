package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"digest/internal/domain"
	"digest/internal/embedding"
	"digest/internal/resilience/retry"
)

var supportedExtensions = []string{".txt", ".md"}

// DigestService loads documents and summarizes them against a shared
// analyzer.
type DigestService struct {
	analyzer     domain.Analyzer
	retry        retry.Config
	maxSentences int
	concurrency  int
	logger       *slog.Logger
}

func NewDigestService(analyzer domain.Analyzer, retryCfg retry.Config, maxSentences, concurrency int, logger *slog.Logger) *DigestService {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	if retryCfg.Logger == nil {
		retryCfg.Logger = logger
	}
	return &DigestService{
		analyzer:     analyzer,
		retry:        retryCfg,
		maxSentences: maxSentences,
		concurrency:  concurrency,
		logger:       logger,
	}
}

// MaxSentences returns the default sentence cap.
func (s *DigestService) MaxSentences() int { return s.maxSentences }

// LoadDocuments expands glob patterns and reads every .txt or .md file.
// A pattern with no matches is treated as a literal path.
func (s *DigestService) LoadDocuments(paths []string) ([]domain.Document, error) {
	var documents []domain.Document
	seen := make(map[string]struct{})
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !supported(m) {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			data, err := os.ReadFile(m)
			if err != nil {
				return nil, err
			}
			documents = append(documents, domain.Document{ID: hashString(m), Path: m, Content: string(data)})
		}
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("no %s documents found", strings.Join(supportedExtensions, " or "))
	}
	s.logger.Debug("documents loaded", slog.Int("count", len(documents)))
	return documents, nil
}

// Summarize returns the summary text for text, capped at maxSentences.
// Non-positive maxSentences uses the service default.
func (s *DigestService) Summarize(ctx context.Context, text string, maxSentences int) (string, error) {
	summary, err := s.Analyze(ctx, text, maxSentences)
	if err != nil {
		return "", err
	}
	return summary.Text, nil
}

// Analyze summarizes text, retrying only when the embedding model could
// not be loaded.
func (s *DigestService) Analyze(ctx context.Context, text string, maxSentences int) (*domain.Summary, error) {
	if maxSentences <= 0 {
		maxSentences = s.maxSentences
	}
	var summary *domain.Summary
	err := retry.WithBackoff(ctx, s.retry, func() error {
		out, err := s.analyzer.Analyze(ctx, text, maxSentences)
		if err != nil {
			return err
		}
		summary = out
		return nil
	}, retry.On(embedding.ErrModelUnavailable))
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// SummarizeDocuments summarizes each document independently, running up to
// the configured concurrency at once. Results keep the input order. The
// first failure cancels the remaining work.
func (s *DigestService) SummarizeDocuments(ctx context.Context, docs []domain.Document) ([]domain.DocumentSummary, error) {
	results := make([]domain.DocumentSummary, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, d := range docs {
		g.Go(func() error {
			summary, err := s.Analyze(gctx, d.Content, s.maxSentences)
			if err != nil {
				return fmt.Errorf("summarize %s: %w", d.Path, err)
			}
			results[i] = domain.DocumentSummary{Document: d, Summary: summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range supportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
