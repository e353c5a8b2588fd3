// Package server exposes critpath's pipeline over HTTP.
//
// # Routes
//
//	GET  /             service index
//	GET  /healthz      liveness; 503 once shutdown has begun
//	GET  /metrics      Prometheus metrics (when a handler is configured)
//	POST /v1/schedule  analyze a task file, respond with the schedule as JSON
//	POST /v1/render    analyze a task file, respond with a network diagram
//
// Request bodies are task files. The Content-Type header picks the decoder
// (application/json, application/yaml, application/toml, application/hcl);
// an absent header means JSON. Analysis options travel as query parameters
// (dangling, window, format, detailed).
//
// Every response carries an X-Request-ID header, echoed from the request
// when present and generated otherwise.
package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/critpath/pkg/cache"
	"github.com/matzehuels/critpath/pkg/pipeline"
)

// CacheScope prefixes the cache keys of diagrams rendered for API
// requests, so the API and the CLI can share one backend.
const CacheScope = "api:"

// NewRunner returns a pipeline runner over c whose artifact keys carry
// CacheScope.
func NewRunner(c cache.Cache, logger *log.Logger) *pipeline.Runner {
	return pipeline.NewRunner(c, cache.NewScopedKeyer(nil, CacheScope), logger)
}

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string

	// ReadTimeout is the maximum duration for reading the entire request.
	// Defaults to 10 seconds if not specified.
	ReadTimeout time.Duration

	// RequestTimeout bounds the time spent handling one request.
	// Defaults to 30 seconds if not specified.
	RequestTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for connections to drain.
	// Defaults to 30 seconds if not specified.
	ShutdownTimeout time.Duration

	// MaxBodyBytes limits the size of uploaded task files.
	// Defaults to 4 MiB if not specified.
	MaxBodyBytes int64

	// Defaults seeds the analysis and render options of every request;
	// query parameters override them.
	Defaults pipeline.Options

	// Metrics serves GET /metrics when non-nil.
	Metrics http.Handler
}

// Server serves the critpath API.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
	inShutdown atomic.Bool
}

// New creates a server that runs requests through runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = NewRunner(nil, logger)
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second, // leaves room to write a finished render
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(deadline(s.cfg.RequestTimeout))
		r.Post("/schedule", s.handleSchedule)
		r.Post("/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusMethodNotAllowed, errMethodNotAllowed(r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the root HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Start listens and serves until the server is shut down.
// Returns http.ErrServerClosed when the server is shut down gracefully.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones to finish,
// up to ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown returns whether the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}
