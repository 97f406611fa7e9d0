// Package embedding generates and caches vector embeddings for semantic
// search over constructs and measures. The neural model itself is an
// external service; a pure-Go lexical fallback keeps search working when
// no encoder service is running.
package embedding

import "context"

// Embedder generates vector embeddings for text. Batch operation is the
// primary interface; pass a one-element slice for single texts.
type Embedder interface {
	// Generate creates one embedding per input text.
	Generate(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of vectors this embedder produces.
	Dimensions() int

	// Model returns the model identifier, for logging.
	Model() string

	// Close releases any resources held by the embedder.
	Close() error
}

// Cache provides content-addressed caching of embeddings keyed by a
// hash of the source text.
type Cache interface {
	// Get returns the cached vector for the content hash, or an error
	// on a miss.
	Get(ctx context.Context, contentHash string) ([]float32, error)

	// Put stores a vector under the content hash.
	Put(ctx context.Context, contentHash string, vector []float32) error
}
