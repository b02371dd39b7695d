package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"digest/internal/config"
	"digest/internal/embedding"
	"digest/internal/embedding/openai"
	"digest/internal/embedding/tfidf"
	"digest/internal/postprocess"
	"digest/internal/ranker"
	"digest/internal/resilience/retry"
	"digest/internal/service"
	"digest/internal/summarizer"
	"digest/internal/synonyms"
)

// newLoader picks the embedding backend named by the config.
func newLoader(cfg config.EmbedderConfig, logger *slog.Logger) (embedding.Loader, error) {
	switch cfg.Type {
	case "tfidf", "":
		l := &tfidf.Loader{}
		if cfg.TFIDF != nil {
			l.CorpusPaths = cfg.TFIDF.CorpusPaths
			l.Dimension = cfg.TFIDF.Dimension
		}
		return l, nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return openai.NewLoader(openai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKey:    os.Getenv(cfg.OpenAI.APIKeyEnv),
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.OpenAI.BatchSize,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func newRanker(cfg config.RankerConfig) (*ranker.Ranker, error) {
	weights := ranker.Weights{
		Lexical:   cfg.Weight("lexical"),
		Frequency: cfg.Weight("frequency"),
		Semantic:  cfg.Weight("semantic"),
		Position:  cfg.Weight("position"),
		Length:    cfg.Weight("length"),
	}
	terms := make([]ranker.WeightedTerm, 0, len(cfg.ExtraTerms))
	for _, tc := range cfg.ExtraTerms {
		term, err := ranker.TermByName(tc.Name)
		if err != nil {
			return nil, err
		}
		terms = append(terms, ranker.WeightedTerm{Term: term, Weight: tc.Weight})
	}
	return ranker.New(weights, terms...), nil
}

func newTransformer(cfg config.VariationConfig) (*synonyms.Transformer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	var (
		th  *synonyms.Thesaurus
		err error
	)
	if cfg.ThesaurusPath != "" {
		th, err = synonyms.LoadFile(cfg.ThesaurusPath)
	} else {
		th, err = synonyms.LoadBuiltin()
	}
	if err != nil {
		return nil, fmt.Errorf("load thesaurus: %w", err)
	}
	return synonyms.NewTransformer(th, synonyms.Options{
		MinWordLength:      cfg.MinWordLength,
		PreferredMaxLength: cfg.PreferredMaxLength,
	}), nil
}

// app holds the assembled components.
type app struct {
	provider *embedding.Provider
	pipeline *summarizer.Pipeline
	service  *service.DigestService
}

func build(cfg *config.AppConfig, logger *slog.Logger, metrics summarizer.MetricsRecorder) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loader, err := newLoader(cfg.Embedder, logger)
	if err != nil {
		return nil, err
	}
	rk, err := newRanker(cfg.Ranker)
	if err != nil {
		return nil, err
	}
	transformer, err := newTransformer(cfg.Variation)
	if err != nil {
		return nil, err
	}

	provider := embedding.NewProvider(loader, logger)
	pipeline := summarizer.NewPipeline(provider, rk, transformer, postprocess.New(cfg.Summarizer.Transitions), logger)
	pipeline.SetMetrics(metrics)

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.Retry.MaxAttempts
	retryCfg.InitialDelay = time.Duration(cfg.Retry.InitialDelayMS) * time.Millisecond
	retryCfg.MaxDelay = time.Duration(cfg.Retry.MaxDelayMS) * time.Millisecond

	svc := service.NewDigestService(pipeline, retryCfg, cfg.Summarizer.MaxSentences, cfg.Summarizer.Concurrency, logger)
	return &app{provider: provider, pipeline: pipeline, service: svc}, nil
}
