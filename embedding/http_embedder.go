package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// HTTPEmbedder calls an external OpenAI-compatible embedding service.
// Works with Hugging Face TEI, LocalAI, or OpenAI itself; the model is a
// black box to this package.
type HTTPEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	cache      Cache
	logger     *slog.Logger
}

// HTTPConfig configures the HTTP embedder.
type HTTPConfig struct {
	// BaseURL of the embedding service, e.g. "http://localhost:8082"
	// for a local TEI container.
	BaseURL string

	// Model identifier, e.g. "all-MiniLM-L6-v2".
	Model string

	// APIKey is optional for local services.
	APIKey string

	// Timeout per request (default 30s).
	Timeout time.Duration

	// Cache for encoded vectors (optional but recommended).
	Cache Cache

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewHTTPEmbedder validates cfg and builds the client.
func NewHTTPEmbedder(cfg HTTPConfig) (*HTTPEmbedder, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("embedding base_url is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "local" // local encoder services ignore the key
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPEmbedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		dimensions: 384, // refined after the first response
		cache:      cfg.Cache,
		logger:     logger,
	}, nil
}

// Generate encodes texts, serving cache hits locally and batching the
// misses into a single API call.
func (h *HTTPEmbedder) Generate(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	if h.cache != nil {
		for i, text := range texts {
			if cached, err := h.cache.Get(ctx, ContentHash(text)); err == nil {
				vectors[i] = cached
			} else {
				missIdx = append(missIdx, i)
				missTexts = append(missTexts, text)
			}
		}
	} else {
		missIdx = make([]int, len(texts))
		for i := range texts {
			missIdx[i] = i
		}
		missTexts = texts
	}

	if len(missTexts) > 0 {
		resp, err := h.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: missTexts,
			Model: openai.EmbeddingModel(h.model),
		})
		if err != nil {
			return nil, fmt.Errorf("embedding API call failed: %w", err)
		}
		if len(resp.Data) != len(missTexts) {
			return nil, fmt.Errorf("encoder returned %d embeddings for %d texts", len(resp.Data), len(missTexts))
		}

		for i, data := range resp.Data {
			vectors[missIdx[i]] = data.Embedding
			if len(data.Embedding) > 0 {
				h.dimensions = len(data.Embedding)
			}
			if h.cache != nil {
				hash := ContentHash(missTexts[i])
				if err := h.cache.Put(ctx, hash, data.Embedding); err != nil {
					// Cache writes are best-effort.
					h.logger.Warn("embedding cache put failed",
						slog.String("hash", hash),
						slog.String("error", err.Error()))
				}
			}
		}
	}

	return vectors, nil
}

// Dimensions returns the vector length of the configured model.
func (h *HTTPEmbedder) Dimensions() int { return h.dimensions }

// Model returns the model identifier.
func (h *HTTPEmbedder) Model() string { return h.model }

// Close is a no-op for the HTTP client.
func (h *HTTPEmbedder) Close() error { return nil }
