package tfidf

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestLoader_DefaultCorpus(t *testing.T) {
	m, err := (&Loader{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tfidf", m.Name())
	assert.Equal(t, DefaultDimension, m.Dimension())
	assert.Greater(t, m.(*Model).CorpusSize(), 10)
}

func TestLoader_CorpusFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha beta\n\n# comment\ngamma delta\n"), 0o644))

	m, err := (&Loader{CorpusPaths: []string{path}, Dimension: 32}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 32, m.Dimension())
	assert.Equal(t, 2, m.(*Model).CorpusSize())
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := (&Loader{CorpusPaths: []string{filepath.Join(t.TempDir(), "nope.txt")}}).Load(context.Background())
	require.Error(t, err)
}

func TestPrepare_Errors(t *testing.T) {
	_, err := Prepare(nil, 8)
	require.Error(t, err)
	_, err = Prepare([]string{"the and of"}, 8)
	require.Error(t, err)
}

func TestModel_Embed(t *testing.T) {
	m, err := Prepare([]string{"cats are mammals", "dogs are mammals", "fish swim"}, 64)
	require.NoError(t, err)

	vecs, err := m.Embed(context.Background(), []string{
		"Cats are mammals.",
		"Cats are mammals.",
		"Fish swim in rivers.",
		"It is what it was.",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 4)

	for _, v := range vecs[:3] {
		assert.Len(t, v, 64)
		assert.InDelta(t, 1.0, norm(v), 1e-9)
	}
	assert.Equal(t, vecs[0], vecs[1], "deterministic")
	assert.InDelta(t, 1.0, dot(vecs[0], vecs[1]), 1e-9)
	assert.Less(t, dot(vecs[0], vecs[2]), 0.99)
	assert.Zero(t, norm(vecs[3]), "stop words only")
}

func TestModel_Embed_Canceled(t *testing.T) {
	m, err := Prepare([]string{"alpha"}, 8)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Embed(ctx, []string{"alpha"})
	assert.ErrorIs(t, err, context.Canceled)
}
