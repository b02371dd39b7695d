package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.TFIDF)
	assert.Equal(t, 512, cfg.Embedder.TFIDF.Dimension)
	assert.Equal(t, 5, cfg.Summarizer.MaxSentences)
	assert.True(t, cfg.Variation.Enabled)
	assert.Equal(t, 7, cfg.Variation.PreferredMaxLength)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OpenAIDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
embedder:
  type: openai
summarizer:
  max_sentences: 3
  transitions: [Also, Then]
ranker:
  weights:
    semantic: 2
  extra_terms:
    - name: topic
      weight: 0.5
variation:
  enabled: false
log:
  level: DEBUG
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, 32, cfg.Embedder.OpenAI.BatchSize)
	assert.Equal(t, 3, cfg.Summarizer.MaxSentences)
	assert.Equal(t, []string{"Also", "Then"}, cfg.Summarizer.Transitions)
	assert.Equal(t, 2.0, cfg.Ranker.Weight("semantic"))
	assert.Equal(t, 1.0, cfg.Ranker.Weight("position"))
	assert.Equal(t, []TermConfig{{Name: "topic", Weight: 0.5}}, cfg.Ranker.ExtraTerms)
	assert.False(t, cfg.Variation.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_LogLevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "Warn")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{name: "embedder", mutate: func(c *AppConfig) { c.Embedder.Type = "bert" }},
		{name: "signal", mutate: func(c *AppConfig) { c.Ranker.Weights = map[string]float64{"novelty": 1} }},
		{name: "log format", mutate: func(c *AppConfig) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Metrics.Addr = ":9090"
	require.NoError(t, Save(path, cfg))

	t.Setenv("LOG_LEVEL", "")
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadDefault_WritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOG_LEVEL", "")
	t.Chdir(t.TempDir())

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "digest", "config.yaml"), path)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.FileExists(t, path)
}
