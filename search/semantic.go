package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/embedding"
)

// Item is one entry in the semantic index: a construct or measure with
// the text that gets embedded.
type Item struct {
	URI         string `json:"uri"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"` // "construct" or "measure"
}

// embeddingText combines label and description for a richer vector.
func (it Item) embeddingText() string {
	if it.Description == "" {
		return it.Label
	}
	return it.Label + " - " + it.Description
}

// Result pairs an indexed item with its similarity to the query.
type Result struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}

// SemanticEngine answers free-text queries against embedded constructs
// and measures. Safe for concurrent use.
type SemanticEngine struct {
	embedder  embedding.Embedder
	indexPath string
	logger    *slog.Logger

	mu      sync.RWMutex
	items   []Item
	vectors [][]float32
}

// NewSemanticEngine creates an engine that persists its index at
// indexPath.
func NewSemanticEngine(embedder embedding.Embedder, indexPath string, logger *slog.Logger) *SemanticEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &SemanticEngine{embedder: embedder, indexPath: indexPath, logger: logger}
}

// indexFile is the on-disk form of the semantic index.
type indexFile struct {
	Model   string      `json:"model"`
	Items   []Item      `json:"items"`
	Vectors [][]float32 `json:"vectors"`
}

// BuildIndex embeds all items and persists the index.
func (e *SemanticEngine) BuildIndex(ctx context.Context, items []Item) error {
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.embeddingText()
	}
	vectors, err := e.embedder.Generate(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d items: %w", len(items), err)
	}
	e.mu.Lock()
	e.items = items
	e.vectors = vectors
	e.mu.Unlock()
	e.logger.Info("semantic index built",
		slog.Int("items", len(items)),
		slog.String("model", e.embedder.Model()))
	return e.save(items, vectors)
}

func (e *SemanticEngine) save(items []Item, vectors [][]float32) error {
	if e.indexPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(e.indexPath), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	data, err := json.Marshal(indexFile{
		Model:   e.embedder.Model(),
		Items:   items,
		Vectors: vectors,
	})
	if err != nil {
		return fmt.Errorf("marshal semantic index: %w", err)
	}
	if err := os.WriteFile(e.indexPath, data, 0o644); err != nil {
		return fmt.Errorf("write semantic index: %w", err)
	}
	return nil
}

// LoadIndex restores a previously built index. An index built by a
// different model is rejected so scores stay comparable.
func (e *SemanticEngine) LoadIndex() error {
	data, err := os.ReadFile(e.indexPath)
	if err != nil {
		return fmt.Errorf("read semantic index: %w", err)
	}
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse semantic index: %w", err)
	}
	if f.Model != e.embedder.Model() {
		return fmt.Errorf("semantic index built with model %q, embedder is %q", f.Model, e.embedder.Model())
	}
	if len(f.Items) != len(f.Vectors) {
		return fmt.Errorf("semantic index corrupt: %d items, %d vectors", len(f.Items), len(f.Vectors))
	}
	e.mu.Lock()
	e.items = f.Items
	e.vectors = f.Vectors
	e.mu.Unlock()
	return nil
}

// snapshot returns the current index slices. The slices are replaced
// wholesale and never mutated in place, so readers can use them
// without holding the lock.
func (e *SemanticEngine) snapshot() ([]Item, [][]float32) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.items, e.vectors
}

// Ready reports whether an index is loaded.
func (e *SemanticEngine) Ready() bool {
	items, _ := e.snapshot()
	return len(items) > 0
}

// Search embeds the query and returns the topK most similar items by
// cosine similarity. Ties break on URI so results are stable.
func (e *SemanticEngine) Search(ctx context.Context, queryText string, topK int) ([]Result, error) {
	items, vectors := e.snapshot()
	if len(items) == 0 {
		if err := e.LoadIndex(); err != nil {
			return nil, fmt.Errorf("semantic index unavailable: %w", err)
		}
		items, vectors = e.snapshot()
	}
	if topK <= 0 {
		topK = 5
	}

	qv, err := e.embedder.Generate(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]Result, len(items))
	for i := range items {
		results[i] = Result{
			Item:  items[i],
			Score: embedding.CosineSimilarity(qv[0], vectors[i]),
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Item.URI < results[j].Item.URI
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
