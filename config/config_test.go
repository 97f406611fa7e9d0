package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Embedding.Provider != "bm25" {
		t.Errorf("expected default provider bm25, got %s", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("expected default dimensions 384, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	w := cfg.Scoring.Weights
	if sum := w.Modality + w.Level + w.Technique + w.SemanticDistance; sum != 1.0 {
		t.Errorf("expected weights summing to 1.0, got %f", sum)
	}
	if cfg.Explain.Thresholds.HighSimilarity != 0.8 {
		t.Errorf("expected high-similarity threshold 0.8, got %f", cfg.Explain.Thresholds.HighSimilarity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing ontology path",
			modify:  func(c *Config) { c.Ontology.Path = "" },
			wantErr: true,
		},
		{
			name:    "unknown embedding provider",
			modify:  func(c *Config) { c.Embedding.Provider = "word2vec" },
			wantErr: true,
		},
		{
			name: "http provider without base url",
			modify: func(c *Config) {
				c.Embedding.Provider = "http"
				c.Embedding.BaseURL = ""
			},
			wantErr: true,
		},
		{
			name:    "bm25 with zero dimensions",
			modify:  func(c *Config) { c.Embedding.Dimensions = 0 },
			wantErr: true,
		},
		{
			name:    "weight out of range",
			modify:  func(c *Config) { c.Scoring.Weights.Modality = 1.5 },
			wantErr: true,
		},
		{
			name:    "missing server addr",
			modify:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biotdms.yaml")
	content := `
ontology:
  path: /data/ontologies
  watch: true
embedding:
  provider: http
  base_url: http://localhost:11434/v1
  model: all-minilm
server:
  addr: ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Ontology.Path != "/data/ontologies" {
		t.Errorf("expected ontology path /data/ontologies, got %s", cfg.Ontology.Path)
	}
	if !cfg.Ontology.Watch {
		t.Error("expected watch enabled")
	}
	if cfg.Embedding.Provider != "http" {
		t.Errorf("expected http provider, got %s", cfg.Embedding.Provider)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %s", cfg.Server.Addr)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.Addr = ":7070"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Server.Addr != ":7070" {
		t.Errorf("expected addr :7070 after reload, got %s", loaded.Server.Addr)
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{}
	overlay.Ontology.Path = "/override"
	overlay.Embedding.Model = "nomic-embed-text"
	overlay.Server.ShutdownTimeout = 30 * time.Second

	base.Merge(overlay)

	if base.Ontology.Path != "/override" {
		t.Errorf("expected merged ontology path /override, got %s", base.Ontology.Path)
	}
	if base.Embedding.Model != "nomic-embed-text" {
		t.Errorf("expected merged model, got %s", base.Embedding.Model)
	}
	if base.Embedding.Provider != "bm25" {
		t.Errorf("zero overlay fields must not clobber, got provider %s", base.Embedding.Provider)
	}
	if base.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected merged shutdown timeout, got %s", base.Server.ShutdownTimeout)
	}

	base.Merge(nil) // must not panic
}

func TestLoadWithoutUserConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if _, err := NewLoader(logger).Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Contains(buf.String(), "Failed to load user config") {
		t.Errorf("missing user config must not warn, log: %s", buf.String())
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("BIOTDMS_ONTOLOGY_PATH", "/from/env")
	t.Setenv("BIOTDMS_ONTOLOGY_WATCH", "true")
	t.Setenv("BIOTDMS_EMBEDDING_DIMENSIONS", "256")
	t.Setenv("BIOTDMS_SERVER_SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("BIOTDMS_EMBEDDING_TIMEOUT", "not-a-duration")

	cfg := DefaultConfig()
	NewLoader(nil).applyEnv(cfg)

	if cfg.Ontology.Path != "/from/env" {
		t.Errorf("expected env ontology path, got %s", cfg.Ontology.Path)
	}
	if !cfg.Ontology.Watch {
		t.Error("expected watch enabled from env")
	}
	if cfg.Embedding.Dimensions != 256 {
		t.Errorf("expected 256 dimensions from env, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected 5s shutdown timeout from env, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Embedding.Timeout != DefaultConfig().Embedding.Timeout {
		t.Errorf("invalid duration must be ignored, got %s", cfg.Embedding.Timeout)
	}
}
