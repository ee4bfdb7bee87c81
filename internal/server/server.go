// Package server exposes analysis sessions over an HTTP JSON API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/storelens/internal/session"
)

// Server is the HTTP front end over in-memory sessions.
type Server struct {
	opt    session.Options
	store  *store
	router *chi.Mux
	server *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithSessionLimits caps how many sessions are held and how long an unused
// one survives. Zero disables the respective limit.
func WithSessionLimits(maxSessions int, ttl time.Duration) Option {
	return func(s *Server) {
		s.store.max, s.store.ttl = maxSessions, ttl
	}
}

// New creates a Server whose sessions are built with opt. By default it
// holds at most 100 sessions, each expiring after an idle hour.
func New(opt session.Options, opts ...Option) *Server {
	s := &Server{
		opt:    opt,
		store:  newStore(defaultMaxSessions, defaultSessionTTL),
		router: chi.NewRouter(),
	}
	for _, o := range opts {
		o(s)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(2 * time.Minute))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/mapping", s.handleUpdateMapping)
			r.Post("/analyze", s.handleAnalyze)
			r.Get("/report", s.handleReport)
			r.Get("/charts/{kind}", s.handleChart)
			r.Get("/export", s.handleExport)
		})
	})
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Sessions reports how many sessions are held.
func (s *Server) Sessions() int {
	return s.store.len()
}
