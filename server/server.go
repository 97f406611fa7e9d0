// Package server exposes the dashboard's JSON API over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/explain"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/query"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/search"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/viz"
)

// Options configures a Server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	Provider        *ontology.Provider
	Semantic        *search.SemanticEngine
	Weights         search.Weights
	Thresholds      explain.Thresholds
	Logger          *slog.Logger
	Metrics         *Metrics
}

// state bundles the components derived from one loaded store. It is
// rebuilt wholesale on graph reload so caches never serve stale data.
type state struct {
	querier   *query.Querier
	scorer    *search.PatternScorer
	generator *explain.Generator
	network   *viz.NetworkBuilder
}

// Server is the HTTP API server.
type Server struct {
	opts     Options
	logger   *slog.Logger
	metrics  *Metrics
	semantic *search.SemanticEngine
	state    atomic.Pointer[state]
	httpSrv  *http.Server
}

// New creates a Server and registers it for graph reloads.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		semantic: opts.Semantic,
	}
	s.rebuild(opts.Provider.Store())
	opts.Provider.OnReload(func(store *ontology.Store) {
		s.rebuild(store)
		s.logger.Info("API state rebuilt after graph reload", slog.Int("triples", store.Len()))
	})

	s.httpSrv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) rebuild(store *ontology.Store) {
	q := query.New(store, s.logger)
	s.state.Store(&state{
		querier:   q,
		scorer:    search.NewPatternScorer(q, s.opts.Weights),
		generator: explain.NewGenerator(q, s.opts.Thresholds),
		network:   viz.NewNetworkBuilder(q),
	})
	s.metrics.GraphTriples.Set(float64(store.Len()))
}

func (s *Server) current() *state { return s.state.Load() }

// routes builds the ServeMux with all endpoints and middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/constructs", s.handleConstructs)
	mux.HandleFunc("GET /api/modalities", s.handleModalities)
	mux.HandleFunc("GET /api/measures", s.handleMeasures)
	mux.HandleFunc("GET /api/evidence", s.handleEvidence)
	mux.HandleFunc("GET /api/facets", s.handleFacets)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/match", s.handleMatch)
	mux.HandleFunc("POST /api/explain", s.handleExplain)
	mux.HandleFunc("GET /api/network", s.handleNetwork)
	mux.HandleFunc("GET /api/forest", s.handleForest)

	var handler http.Handler = mux
	handler = s.instrument(handler)
	handler = s.cors(handler)
	handler = s.requestID(handler)
	return handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", slog.String("addr", s.opts.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("API server stopped")
	return <-errCh
}

// Handler exposes the full middleware chain, used by tests.
func (s *Server) Handler() http.Handler { return s.routes() }
