package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"digest/internal/domain"
	"digest/internal/lexical"
	"digest/internal/postprocess"
	"digest/internal/ranker"
	"digest/internal/segmenter"
	"digest/internal/selector"
	"digest/internal/similarity"
	"digest/internal/synonyms"
)

// ErrSummarization is the coarse failure signal for any aborted call. The
// underlying cause stays in the error chain.
var ErrSummarization = errors.New("failed to generate summary")

var (
	_ domain.Summarizer = (*Pipeline)(nil)
	_ domain.Analyzer   = (*Pipeline)(nil)
)

// Pipeline is the extractive summarizer: segment, score, rank, select,
// vary and post-process. It holds no per-call state.
type Pipeline struct {
	segmenter   *segmenter.Segmenter
	similarity  *similarity.Scorer
	ranker      *ranker.Ranker
	transformer *synonyms.Transformer
	processor   *postprocess.Processor
	logger      *slog.Logger
	metrics     MetricsRecorder
}

// NewPipeline wires the stages. A nil transformer disables synonym
// substitution; nil ranker and processor fall back to defaults.
func NewPipeline(embedder similarity.Embedder, rk *ranker.Ranker, transformer *synonyms.Transformer, processor *postprocess.Processor, logger *slog.Logger) *Pipeline {
	if rk == nil {
		rk = ranker.New(ranker.DefaultWeights())
	}
	if processor == nil {
		processor = postprocess.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		segmenter:   segmenter.New(),
		similarity:  similarity.NewScorer(embedder),
		ranker:      rk,
		transformer: transformer,
		processor:   processor,
		logger:      logger,
		metrics:     NoopMetrics{},
	}
}

// SetMetrics replaces the metrics recorder.
func (p *Pipeline) SetMetrics(m MetricsRecorder) {
	if m == nil {
		m = NoopMetrics{}
	}
	p.metrics = m
}

// Summarize returns the summary text of at most maxSentences sentences.
// Non-positive maxSentences selects the default of 5.
func (p *Pipeline) Summarize(ctx context.Context, text string, maxSentences int) (string, error) {
	s, err := p.Analyze(ctx, text, maxSentences)
	if err != nil {
		return "", err
	}
	return s.Text, nil
}

// Analyze runs the pipeline and returns the ranking detail with the text.
func (p *Pipeline) Analyze(ctx context.Context, text string, maxSentences int) (*domain.Summary, error) {
	start := time.Now()
	sentences := p.segmenter.Split(text)
	if len(sentences) == 0 {
		return &domain.Summary{}, nil
	}
	texts := segmenter.Texts(sentences)

	frequency := lexical.BuildFrequency(text)
	freqScores := make([]float64, len(texts))
	for i, t := range texts {
		freqScores[i] = frequency.SentenceScore(t)
	}
	lexScores := lexical.NewCorpus(texts).Scores()

	semScores, err := p.similarity.Score(ctx, texts)
	if err != nil {
		return nil, p.fail("similarity", err)
	}

	ranked, err := p.ranker.Rank(sentences, ranker.Signals{
		Lexical:   lexScores,
		Frequency: freqScores,
		Semantic:  semScores,
	})
	if err != nil {
		return nil, p.fail("rank", err)
	}

	n := selector.Length(len(sentences), maxSentences)
	selected := selector.Top(ranked, n)

	rewritten := make([]string, len(selected))
	for i, s := range selected {
		rewritten[i] = p.transformer.Rewrite(s.Text)
	}
	summary := p.processor.Process(rewritten)

	duration := time.Since(start)
	p.metrics.RecordSummary(duration, len(sentences), len(selected))
	p.logger.DebugContext(ctx, "summary generated",
		slog.Int("sentences", len(sentences)),
		slog.Int("selected", len(selected)),
		slog.Int("reference_index", similarity.ReferenceIndex(len(sentences))),
		slog.Int("summary_length", len([]rune(summary))),
		slog.Duration("duration", duration))

	return &domain.Summary{
		Text:          summary,
		SentenceCount: len(sentences),
		Ranked:        ranked,
		Selected:      selected,
	}, nil
}

func (p *Pipeline) fail(stage string, err error) error {
	p.metrics.RecordFailure(stage)
	p.logger.Error("summarization failed",
		slog.String("stage", stage),
		slog.String("error", err.Error()))
	return fmt.Errorf("%w: %s: %w", ErrSummarization, stage, err)
}
