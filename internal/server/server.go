// Package server wires the store, the connection watcher, the handlers and
// the middleware into one HTTP server and runs it until a shutdown signal.
//
// Dependency flow, assembled in New:
//
//	repository.Store → handler.SnippetHandler ─┐
//	connwatch.Watcher → handler.HealthHandler ─┴→ chi router
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snippets/internal/connwatch"
	"github.com/sakif/snippets/internal/handler"
	"github.com/sakif/snippets/internal/middleware"
	"github.com/sakif/snippets/internal/repository"
)

// HealthPath is registered outside the snippet prefix.
const HealthPath = "/healthz"

const shutdownTimeout = 30 * time.Second

// Config holds server configuration.
type Config struct {
	Port int
	// Prefix is the path every snippet route hangs off, e.g. "/snippets".
	// Empty mounts the routes at the root.
	Prefix string
}

// Server owns the store for its whole lifetime and closes it on shutdown.
type Server struct {
	router  *chi.Mux
	config  Config
	logger  *slog.Logger
	store   repository.Store
	watcher *connwatch.Watcher
}

// New builds the router. The store must already be connected.
func New(cfg Config, store repository.Store, watcher *connwatch.Watcher, logger *slog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		store:   store,
		watcher: watcher,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers, relative to the prefix:
//
//	GET    /                  → list (or search with ?searchterm=, or ?name=)
//	POST   /                  → add
//	GET    /{id}              → get by id
//	PUT    /{id}              → update
//	DELETE /{id}              → delete
//
// plus GET /healthz at the root.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	healthHandler := handler.NewHealthHandler(s.watcher, s.logger)
	s.router.Get(HealthPath, healthHandler.HandleHealth)

	snippetHandler := handler.NewSnippetHandler(s.store, s.logger, s.watcher.Notify)
	routes := func(r chi.Router) {
		r.Get("/", snippetHandler.HandleList)
		r.Post("/", snippetHandler.HandleCreate)
		r.Get("/{id}", snippetHandler.HandleGetByID)
		r.Put("/{id}", snippetHandler.HandleUpdate)
		r.Delete("/{id}", snippetHandler.HandleDelete)
	}

	// chi cannot mount a sub-router on "".
	if s.config.Prefix == "" {
		routes(s.router)
		return
	}
	s.router.Route(s.config.Prefix, routes)
}

// Start serves until SIGINT, SIGTERM or ctx is cancelled, then drains
// in-flight requests, stops the watcher and closes the store.
func (s *Server) Start(ctx context.Context) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("closing database", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.watcher.Run(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("prefix", s.config.Prefix),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}
