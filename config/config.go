// Package config provides configuration loading and management for the
// dashboard and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/explain"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/search"
)

// Config represents the complete application configuration.
type Config struct {
	Ontology  OntologyConfig  `yaml:"ontology"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Explain   ExplainConfig   `yaml:"explain"`
	Server    ServerConfig    `yaml:"server"`
}

// OntologyConfig configures graph loading.
type OntologyConfig struct {
	// Path is the directory searched recursively for .ttl files.
	Path string `yaml:"path"`
	// Watch enables automatic reload when files under Path change.
	Watch bool `yaml:"watch"`
}

// EmbeddingConfig configures the semantic-search embedder.
type EmbeddingConfig struct {
	// Provider selects the embedder: "bm25" (local, no network) or
	// "http" (OpenAI-compatible endpoint).
	Provider string `yaml:"provider"`
	// BaseURL is the OpenAI-compatible API endpoint for the http provider.
	BaseURL string `yaml:"base_url"`
	// Model is the embedding model name.
	Model string `yaml:"model"`
	// APIKey authenticates against the http provider, if required.
	APIKey string `yaml:"api_key"`
	// Dimensions is the vector size for the bm25 provider.
	Dimensions int `yaml:"dimensions"`
	// CacheDir stores content-addressed embedding vectors.
	CacheDir string `yaml:"cache_dir"`
	// IndexPath is where the built semantic index is persisted.
	IndexPath string `yaml:"index_path"`
	// Timeout bounds embedding API calls.
	Timeout time.Duration `yaml:"timeout"`
}

// ScoringConfig holds the pattern-matching weights.
type ScoringConfig struct {
	Weights search.Weights `yaml:"weights"`
}

// ExplainConfig holds the explanation wording thresholds.
type ExplainConfig struct {
	Thresholds explain.Thresholds `yaml:"thresholds"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Ontology: OntologyConfig{
			Path:  "ontology",
			Watch: false,
		},
		Embedding: EmbeddingConfig{
			Provider:   "bm25",
			BaseURL:    "http://localhost:11434/v1",
			Model:      "all-minilm",
			Dimensions: 384,
			CacheDir:   ".biotdms/embeddings",
			IndexPath:  ".biotdms/semantic-index.json",
			Timeout:    30 * time.Second,
		},
		Scoring: ScoringConfig{
			Weights: search.DefaultWeights(),
		},
		Explain: ExplainConfig{
			Thresholds: explain.DefaultThresholds(),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Ontology.Path == "" {
		return fmt.Errorf("ontology.path is required")
	}
	switch c.Embedding.Provider {
	case "bm25":
		if c.Embedding.Dimensions <= 0 {
			return fmt.Errorf("embedding.dimensions must be positive")
		}
	case "http":
		if c.Embedding.BaseURL == "" {
			return fmt.Errorf("embedding.base_url is required for the http provider")
		}
		if c.Embedding.Model == "" {
			return fmt.Errorf("embedding.model is required for the http provider")
		}
	default:
		return fmt.Errorf("embedding.provider must be \"bm25\" or \"http\", got %q", c.Embedding.Provider)
	}
	w := c.Scoring.Weights
	for name, v := range map[string]float64{
		"modality":          w.Modality,
		"level":             w.Level,
		"technique":         w.Technique,
		"semantic_distance": w.SemanticDistance,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("scoring.weights.%s must be between 0 and 1", name)
		}
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one. Non-zero fields of other
// take precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Ontology.Path != "" {
		c.Ontology.Path = other.Ontology.Path
	}
	if other.Ontology.Watch {
		c.Ontology.Watch = true
	}

	if other.Embedding.Provider != "" {
		c.Embedding.Provider = other.Embedding.Provider
	}
	if other.Embedding.BaseURL != "" {
		c.Embedding.BaseURL = other.Embedding.BaseURL
	}
	if other.Embedding.Model != "" {
		c.Embedding.Model = other.Embedding.Model
	}
	if other.Embedding.APIKey != "" {
		c.Embedding.APIKey = other.Embedding.APIKey
	}
	if other.Embedding.Dimensions != 0 {
		c.Embedding.Dimensions = other.Embedding.Dimensions
	}
	if other.Embedding.CacheDir != "" {
		c.Embedding.CacheDir = other.Embedding.CacheDir
	}
	if other.Embedding.IndexPath != "" {
		c.Embedding.IndexPath = other.Embedding.IndexPath
	}
	if other.Embedding.Timeout != 0 {
		c.Embedding.Timeout = other.Embedding.Timeout
	}

	zero := search.Weights{}
	if other.Scoring.Weights != zero {
		c.Scoring.Weights = other.Scoring.Weights
	}
	if other.Explain.Thresholds != (explain.Thresholds{}) {
		c.Explain.Thresholds = other.Explain.Thresholds
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
}
