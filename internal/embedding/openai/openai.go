package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"digest/internal/embedding"
)

// Config configures the OpenAI-compatible embeddings backend.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	BatchSize int
}

// Loader connects to an OpenAI-compatible embeddings endpoint. Loading
// probes the endpoint once to learn the vector dimension.
type Loader struct {
	cfg    Config
	logger *slog.Logger
}

var _ embedding.Loader = (*Loader)(nil)

// NewLoader validates cfg and fills defaults.
func NewLoader(cfg Config, logger *slog.Logger) (*Loader, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai embedder: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cfg: cfg, logger: logger}, nil
}

// Load builds the client and runs the dimension probe.
func (l *Loader) Load(ctx context.Context) (embedding.Model, error) {
	clientConfig := goopenai.DefaultConfig(l.cfg.APIKey)
	clientConfig.BaseURL = l.cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: l.cfg.Timeout}

	m := &Model{
		client:    goopenai.NewClientWithConfig(clientConfig),
		model:     l.cfg.Model,
		batchSize: l.cfg.BatchSize,
		breaker:   newBreaker(l.logger),
	}
	probe, err := m.embedBatch(ctx, []string{"dimension probe"})
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", l.cfg.Model, err)
	}
	m.dimension = len(probe[0])
	if m.dimension == 0 {
		return nil, fmt.Errorf("probe %s: empty embedding", l.cfg.Model)
	}
	return m, nil
}

// Model embeds text through the remote API.
type Model struct {
	client    *goopenai.Client
	model     string
	batchSize int
	dimension int
	breaker   *gobreaker.CircuitBreaker
}

// Name returns the remote model identifier.
func (m *Model) Name() string { return m.model }

// Dimension returns the dimension learned by the load probe.
func (m *Model) Dimension() int { return m.dimension }

// Embed sends texts in batches and returns vectors in input order.
func (m *Model) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += m.batchSize {
		end := min(start+m.batchSize, len(texts))
		vecs, err := m.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, v := range vecs {
			if m.dimension > 0 && len(v) != m.dimension {
				return nil, fmt.Errorf("openai embeddings: got dimension %d, want %d", len(v), m.dimension)
			}
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (m *Model) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	res, err := m.breaker.Execute(func() (interface{}, error) {
		return m.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
			Input: texts,
			Model: goopenai.EmbeddingModel(m.model),
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("openai embeddings unavailable: %w", err)
		}
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	resp := res.(goopenai.EmbeddingResponse)
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		v := make([]float64, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float64(x)
		}
		vectors[d.Index] = v
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("openai embeddings: missing vector for input %d", i)
		}
	}
	return vectors, nil
}

func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai-embeddings",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
}
