// Package server runs the Booksmith HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jackzampolin/booksmith/internal/agent"
	"github.com/jackzampolin/booksmith/internal/api"
	"github.com/jackzampolin/booksmith/internal/config"
	"github.com/jackzampolin/booksmith/internal/export"
	"github.com/jackzampolin/booksmith/internal/llm"
	"github.com/jackzampolin/booksmith/internal/server/endpoints"
	"github.com/jackzampolin/booksmith/internal/store"
	"github.com/jackzampolin/booksmith/internal/svcctx"
)

// Server is the main Booksmith HTTP server.
type Server struct {
	httpServer *http.Server
	books      store.Store
	agent      *agent.Agent
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8765)
	Port int
	// Backend generates text; defaults to an OpenAI backend built from
	// ConfigManager settings.
	Backend llm.Backend
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8765
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == nil {
		if cfg.ConfigManager == nil {
			return nil, errors.New("either a backend or a config manager is required")
		}
		backend = BackendFromConfig(cfg.ConfigManager.Get(), cfg.Logger)
	}

	ag, err := agent.New(agent.Config{Backend: backend, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("failed to create writing agent: %w", err)
	}

	outputDir := "books"
	if cfg.ConfigManager != nil {
		outputDir = cfg.ConfigManager.Get().Output.Dir
	}

	s := &Server{
		books:     store.NewMemoryStore(),
		agent:     ag,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	s.services = &svcctx.Services{
		Books:    s.books,
		Agent:    s.agent,
		Config:   s.configMgr,
		Exporter: export.New(outputDir),
		Logger:   s.logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:     s.withServices(mux),
		ReadTimeout: 30 * time.Second,
		// Full-book generation holds the connection open for a long time.
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// BackendFromConfig builds an OpenAI backend from config settings.
func BackendFromConfig(cfg *config.Config, logger *slog.Logger) llm.Backend {
	return llm.NewOpenAIBackend(llm.OpenAIConfig{
		APIKey:        cfg.ResolvedAPIKey(),
		BaseURL:       cfg.OpenAI.BaseURL,
		Model:         cfg.OpenAI.Model,
		MaxTokens:     cfg.OpenAI.MaxTokens,
		Temperature:   cfg.OpenAI.Temperature,
		UseJSONMode:   cfg.OpenAI.UseJSONMode,
		EnforceSchema: cfg.OpenAI.EnforceSchema,
		Timeout:       cfg.OpenAI.Timeout,
		Retry: llm.RetryPolicy{
			MaxRetries: cfg.OpenAI.MaxRetries,
			Delay:      cfg.OpenAI.RetryDelay,
		},
		RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
		Logger:            logger,
	})
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Books returns the book store.
func (s *Server) Books() store.Store {
	return s.books
}

// Agent returns the writing agent.
func (s *Server) Agent() *agent.Agent {
	return s.agent
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the full request handler, for tests that drive the server
// through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the agent or store aren't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.agent == nil || s.books == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
