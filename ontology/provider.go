package ontology

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Provider owns the current store and swaps it atomically on reload.
// Consumers hold a Provider and call Store per request, so a background
// reload becomes visible without any reader-side locking.
type Provider struct {
	loader *Loader
	logger *slog.Logger

	current atomic.Pointer[Store]

	mu       sync.Mutex
	onReload []func(*Store)
}

// NewProvider creates a provider around loader.
func NewProvider(loader *Loader, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{loader: loader, logger: logger}
}

// Load performs the initial load. It must succeed before Store is usable.
func (p *Provider) Load() error {
	store, err := p.loader.Load()
	if err != nil {
		return err
	}
	p.current.Store(store)
	return nil
}

// Store returns the current store. Nil until Load has succeeded.
func (p *Provider) Store() *Store {
	return p.current.Load()
}

// OnReload registers a callback invoked with the new store after a
// successful reload. Callbacks run on the reload goroutine.
func (p *Provider) OnReload(fn func(*Store)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onReload = append(p.onReload, fn)
}

// Reload re-parses the ontology directory and swaps in the new store.
// On failure the previous store stays active.
func (p *Provider) Reload() error {
	store, err := p.loader.Load()
	if err != nil {
		p.logger.Error("ontology reload failed, keeping previous store",
			slog.String("error", err.Error()))
		return err
	}
	p.current.Store(store)
	p.logger.Info("ontology reloaded", slog.Int("triples", store.Len()))

	p.mu.Lock()
	callbacks := make([]func(*Store), len(p.onReload))
	copy(callbacks, p.onReload)
	p.mu.Unlock()
	for _, fn := range callbacks {
		fn(store)
	}
	return nil
}
