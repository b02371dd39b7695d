package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TFIDFEmbedderConfig configures the local hashed TF-IDF embedding model.
type TFIDFEmbedderConfig struct {
	CorpusPaths []string `yaml:"corpus_paths,omitempty"`
	Dimension   int      `yaml:"dimension"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the embedding model behind the
// semantic similarity signal.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	TFIDF  *TFIDFEmbedderConfig  `yaml:"tfidf,omitempty"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// SummarizerConfig configures selection and post-processing.
type SummarizerConfig struct {
	MaxSentences int      `yaml:"max_sentences"`
	Transitions  []string `yaml:"transitions,omitempty"`
	Concurrency  int      `yaml:"concurrency"`
}

// TermConfig enables an optional ranking term.
type TermConfig struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// RankerConfig scales the built-in signals. Signals missing from Weights
// keep a weight of 1.
type RankerConfig struct {
	Weights    map[string]float64 `yaml:"weights,omitempty"`
	ExtraTerms []TermConfig       `yaml:"extra_terms,omitempty"`
}

// VariationConfig configures synonym substitution.
type VariationConfig struct {
	Enabled            bool   `yaml:"enabled"`
	ThesaurusPath      string `yaml:"thesaurus_path,omitempty"`
	MinWordLength      int    `yaml:"min_word_length"`
	PreferredMaxLength int    `yaml:"preferred_max_length"`
}

// RetryConfig bounds retries of transient model-load failures.
type RetryConfig struct {
	MaxAttempts    int `yaml:"max_attempts"`
	InitialDelayMS int `yaml:"initial_delay_ms"`
	MaxDelayMS     int `yaml:"max_delay_ms"`
}

// LogConfig selects the log level and handler format (json or text).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig exposes Prometheus metrics when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Ranker     RankerConfig     `yaml:"ranker"`
	Variation  VariationConfig  `yaml:"variation"`
	Retry      RetryConfig      `yaml:"retry"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// Weight returns the configured weight for a built-in signal, or 1.
func (c RankerConfig) Weight(signal string) float64 {
	if w, ok := c.Weights[signal]; ok {
		return w
	}
	return 1
}

// Validate reports settings that cannot be used to build the pipeline.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "tfidf", "openai":
	default:
		return fmt.Errorf("unknown embedder type %q", c.Embedder.Type)
	}
	for name := range c.Ranker.Weights {
		switch name {
		case "lexical", "frequency", "semantic", "position", "length":
		default:
			return fmt.Errorf("unknown ranker signal %q", name)
		}
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/digest/config.yaml.
// If neither exists, it writes defaults to ~/.config/digest/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "digest", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:   EmbedderConfig{Type: "tfidf"},
		Summarizer: SummarizerConfig{MaxSentences: 5, Concurrency: 4},
		Variation:  VariationConfig{Enabled: true, MinWordLength: 4, PreferredMaxLength: 7},
		Retry:      RetryConfig{MaxAttempts: 3, InitialDelayMS: 500, MaxDelayMS: 5000},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "tfidf" {
		if cfg.Embedder.TFIDF == nil {
			cfg.Embedder.TFIDF = &TFIDFEmbedderConfig{}
		}
		if cfg.Embedder.TFIDF.Dimension == 0 {
			cfg.Embedder.TFIDF.Dimension = 512
		}
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.Summarizer.MaxSentences <= 0 {
		cfg.Summarizer.MaxSentences = 5
	}
	if cfg.Summarizer.Concurrency <= 0 {
		cfg.Summarizer.Concurrency = 4
	}
	if cfg.Variation.MinWordLength <= 0 {
		cfg.Variation.MinWordLength = 4
	}
	if cfg.Variation.PreferredMaxLength <= 0 {
		cfg.Variation.PreferredMaxLength = 7
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.InitialDelayMS <= 0 {
		cfg.Retry.InitialDelayMS = 500
	}
	if cfg.Retry.MaxDelayMS <= 0 {
		cfg.Retry.MaxDelayMS = 5000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
}

func applyEnvOverrides(cfg *AppConfig) {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = strings.ToLower(lvl)
	}
}
