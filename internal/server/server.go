// Package server exposes the translate and advice operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Assistant Assistant
	Languages LanguageCatalog
	Backend   BackendPinger
	Logger    *zap.Logger
	Version   string
}

// NewRouter builds the HTTP handler with all routes and middleware.
func NewRouter(deps Dependencies) (http.Handler, error) {
	if deps.Assistant == nil || deps.Languages == nil || deps.Backend == nil {
		return nil, fmt.Errorf("server dependencies are incomplete")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	api := &apiHandler{assistant: deps.Assistant, languages: deps.Languages, logger: logger}
	health := &healthHandler{backend: deps.Backend, version: deps.Version}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(logger))
	r.Use(Recovery(logger))
	r.Use(middleware.CleanPath)

	r.Get("/health", health.live)
	r.Get("/ready", health.ready)

	r.Route("/api", func(r chi.Router) {
		r.Post("/translate", api.translate)
		r.Post("/advice", api.advice)
		r.Get("/languages", api.listLanguages)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return r, nil
}

// Server owns the listening HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New wraps handler in an http.Server bound to addr. No write timeout is
// set so slow generation calls are not cut off by the server.
func New(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until Shutdown is called. It returns nil after a graceful
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
