package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/snapserve/snapserve/internal/ai"
	"github.com/snapserve/snapserve/internal/server/cache"
	"github.com/snapserve/snapserve/internal/server/handlers"
	"github.com/snapserve/snapserve/internal/server/metrics"
	"github.com/snapserve/snapserve/internal/server/ws"
	"github.com/snapserve/snapserve/internal/storage"
	"github.com/snapserve/snapserve/pkg/errors"
)

// Server is the SnapServe API server. It owns the HTTP listener, the
// WebSocket hub, and the stores and services the handlers consume.
type Server struct {
	config   Config
	logger   *zerolog.Logger
	store    storage.Store
	hub      *ws.Hub
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	cache    *cache.Cache
	handlers *handlers.Handlers
	http     *http.Server
}

// New creates a server from the configuration. The store is seeded from the
// configured fixture (or the embedded demo fixture), and the assistant is
// Gemini-backed when an API key is configured, heuristic otherwise.
func New(ctx context.Context, config Config, logger *zerolog.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := newSeededStore(ctx, config.SeedPath)
	if err != nil {
		return nil, errors.Wrap(err, "seeding store")
	}

	var assistant ai.Assistant
	if config.GeminiAPIKey != "" {
		gemini, err := ai.NewGemini(ctx, config.GeminiAPIKey, config.GeminiModel, logger)
		if err != nil {
			return nil, errors.Wrap(err, "initializing assistant")
		}
		assistant = gemini
		logger.Info().Msg("Using Gemini assistant")
	} else {
		assistant = ai.NewHeuristic()
		logger.Info().Msg("No Gemini API key configured, using heuristic assistant")
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	hub := ws.NewHub(logger, m)
	responseCache := cache.New(config.CacheTTL, 2*config.CacheTTL)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Browser dashboards connect cross-origin in development; the
		// fronting proxy enforces origins in production.
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	s := &Server{
		config:   config,
		logger:   logger,
		store:    store,
		hub:      hub,
		metrics:  m,
		registry: registry,
		cache:    responseCache,
		handlers: handlers.New(store, assistant, hub, responseCache, upgrader, logger),
	}

	s.http = &http.Server{
		Addr:         config.Address(),
		Handler:      s.router(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s, nil
}

// newSeededStore builds the in-memory store, seeded from path when given and
// from the embedded fixture otherwise.
func newSeededStore(ctx context.Context, path string) (storage.Store, error) {
	if path == "" {
		return storage.NewSeededStore(ctx)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := storage.ParseSeed(data)
	if err != nil {
		return nil, err
	}
	store := storage.NewMemStore()
	if err := seed.Apply(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// Hub exposes the event hub so domain services outside the HTTP layer can
// publish.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Store exposes the persistence layer.
func (s *Server) Store() storage.Store {
	return s.store
}

// Start runs the hub and the HTTP listener until the context is cancelled,
// then shuts down gracefully. It blocks.
func (s *Server) Start(ctx context.Context) error {
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.config.Address()).Msg("Server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	// Stop the hub after the listener so in-flight connections close first.
	cancelHub()
	// Give the hub loop a beat to close client channels.
	time.Sleep(50 * time.Millisecond)
	return nil
}
