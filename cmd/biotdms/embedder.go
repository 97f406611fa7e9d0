package main

import (
	"context"
	"fmt"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/embedding"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/search"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

// newEmbedder builds the configured embedding provider.
func newEmbedder(a *app) (embedding.Embedder, error) {
	cfg := a.cfg.Embedding
	switch cfg.Provider {
	case "bm25":
		return embedding.NewBM25Embedder(embedding.BM25Config{Dimensions: cfg.Dimensions}), nil
	case "http":
		var cache embedding.Cache
		if cfg.CacheDir != "" {
			fc, err := embedding.NewFileCache(cfg.CacheDir)
			if err != nil {
				return nil, fmt.Errorf("create embedding cache: %w", err)
			}
			cache = fc
		}
		return embedding.NewHTTPEmbedder(embedding.HTTPConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
			Cache:   cache,
			Logger:  a.logger,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// newSemanticEngine builds the engine over the configured embedder.
func newSemanticEngine(a *app) (*search.SemanticEngine, error) {
	embedder, err := newEmbedder(a)
	if err != nil {
		return nil, err
	}
	return search.NewSemanticEngine(embedder, a.cfg.Embedding.IndexPath, a.logger), nil
}

// indexItems collects the constructs and measures to embed.
func indexItems(q *query.Querier) []search.Item {
	var items []search.Item
	for _, c := range q.AllConstructs() {
		desc, _ := q.ConstructComment(c.URI)
		items = append(items, search.Item{
			URI:         c.URI,
			Label:       c.Label,
			Description: desc,
			Kind:        "construct",
		})
	}
	for _, m := range q.AllMeasures() {
		item := search.Item{URI: m, Label: meas.LocalName(m), Kind: "measure"}
		if info, ok := q.MeasureInfo(m); ok {
			item.Label = info.Name
			item.Description = info.Description
		}
		items = append(items, item)
	}
	return items
}

// buildIndex embeds all items and persists the index.
func buildIndex(ctx context.Context, a *app, engine *search.SemanticEngine) error {
	items := indexItems(a.querier)
	if len(items) == 0 {
		return fmt.Errorf("nothing to index: no constructs or measures loaded")
	}
	return engine.BuildIndex(ctx, items)
}

// prepareEngine loads a persisted index, building one on the spot when
// none exists or the model changed. The bm25 provider always rebuilds:
// its corpus statistics live in the embedder, not the index file, and
// rebuilding is a local operation.
func prepareEngine(ctx context.Context, a *app) (*search.SemanticEngine, error) {
	engine, err := newSemanticEngine(a)
	if err != nil {
		return nil, err
	}
	if a.cfg.Embedding.Provider == "bm25" {
		return engine, buildIndex(ctx, a, engine)
	}
	if err := engine.LoadIndex(); err != nil {
		a.logger.Info("Building semantic index", "reason", err.Error())
		if err := buildIndex(ctx, a, engine); err != nil {
			return nil, err
		}
	}
	return engine, nil
}
