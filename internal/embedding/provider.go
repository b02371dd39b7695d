package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// State is the lifecycle position of the provider's model.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

const loadKey = "model"

// Provider owns the process-wide embedding model. The model is loaded on
// first use, at most one load is in flight, and a successful load is kept
// for the life of the process. Failed loads are not remembered.
type Provider struct {
	loader Loader
	logger *slog.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	model   Model
	loading bool
}

// NewProvider creates a provider that loads its model through loader.
func NewProvider(loader Loader, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{loader: loader, logger: logger}
}

// State reports whether the model is uninitialized, loading or ready.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch {
	case p.model != nil:
		return StateReady
	case p.loading:
		return StateLoading
	default:
		return StateUninitialized
	}
}

// Ready reports whether the model has been loaded.
func (p *Provider) Ready() bool { return p.State() == StateReady }

// EnsureLoaded returns the loaded model, loading it if needed. Callers that
// arrive while a load is in flight wait for that same load.
func (p *Provider) EnsureLoaded(ctx context.Context) (Model, error) {
	p.mu.RLock()
	m := p.model
	p.mu.RUnlock()
	if m != nil {
		return m, nil
	}

	ch := p.group.DoChan(loadKey, func() (any, error) {
		p.mu.Lock()
		if p.model != nil {
			m := p.model
			p.mu.Unlock()
			return m, nil
		}
		p.loading = true
		p.mu.Unlock()

		// The load outlives any single caller's cancellation.
		m, err := p.load(context.WithoutCancel(ctx))

		p.mu.Lock()
		p.loading = false
		if err == nil {
			p.model = m
		}
		p.mu.Unlock()
		return m, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Model), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, ctx.Err())
	}
}

func (p *Provider) load(ctx context.Context) (m Model, err error) {
	start := time.Now()
	p.logger.Info("loading embedding model")
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("loader panicked: %v", r)
		}
		if err != nil {
			p.logger.Error("embedding model load failed",
				slog.Duration("duration", time.Since(start)),
				slog.String("error", err.Error()))
			err = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
			return
		}
		p.logger.Info("embedding model loaded",
			slog.String("model", m.Name()),
			slog.Int("dimension", m.Dimension()),
			slog.Duration("duration", time.Since(start)))
	}()
	m, err = p.loader.Load(ctx)
	if err == nil && m == nil {
		err = fmt.Errorf("loader returned no model")
	}
	return m, err
}

// Embed embeds texts with the loaded model, loading it first if needed.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	m, err := p.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	vectors, err := m.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed with %s: %w", m.Name(), err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed with %s: got %d vectors for %d texts", m.Name(), len(vectors), len(texts))
	}
	return vectors, nil
}
