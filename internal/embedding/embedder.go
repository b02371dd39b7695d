package embedding

import (
	"context"
	"errors"
)

// ErrModelUnavailable marks a failure to load the embedding model. It is
// transient: the next call attempts the load again.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Model converts free text into fixed-length numeric vectors. A loaded
// model is read-only and safe for concurrent use.
type Model interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Loader produces a ready Model, typically by reading weights or probing a
// remote service.
type Loader interface {
	Load(ctx context.Context) (Model, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (Model, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (Model, error) { return f(ctx) }
