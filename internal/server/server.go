// Package server exposes live decks over HTTP.
//
// Each deck is a session in a [session.Store], addressed by a UUID. Every
// request locks its session, drives the engine and answers with the deck's
// snapshot as JSON. Touch and tick requests may carry their own timestamp
// (t_ms, milliseconds since the deck was created); without one the server
// uses wall time since creation.
//
// # Routes
//
//	GET    /healthz
//	POST   /decks                       create a deck
//	GET    /decks/{id}                  snapshot
//	DELETE /decks/{id}
//	POST   /decks/{id}/resize           {"width": 600, "height": 1000}
//	POST   /decks/{id}/items            {"handles": [...]} or {"handle": "x"}
//	DELETE /decks/{id}/items/{handle}   animated removal
//	POST   /decks/{id}/touch            {"action": "press", "pos": 900}
//	POST   /decks/{id}/fling            {"velocity": -3000}
//	POST   /decks/{id}/tick             {"t_ms": 516}
//	POST   /decks/{id}/clear
//	GET    /decks/{id}/render?format=svg&style=flat&scale=2
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with a
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/session"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server is the deck HTTP host.
type Server struct {
	cfg    config.Config
	store  session.Store
	cache  cache.Cache
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the default in-memory session store.
func WithStore(st session.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithCache sets the cache for rendered artifacts.
func WithCache(c cache.Cache) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
		}
	}
}

// New creates a server for cfg.
func New(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		cache:  cache.NewNullCache(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = session.NewMemoryStore(cfg.Server.MaxSessions, cfg.Server.SessionTTL)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("Listening", "addr", s.cfg.Server.Addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down")
	return srv.Shutdown(shutdownCtx)
}

// sweep drops expired sessions until ctx is done.
func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("Session cleanup failed", "error", err)
			} else if n > 0 {
				s.logger.Debug("Expired sessions removed", "count", n, "live", s.store.Len())
			}
		}
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/decks", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/resize", s.handleResize)
			r.Post("/items", s.handleItems)
			r.Delete("/items/{handle}", s.handleRemove)
			r.Post("/touch", s.handleTouch)
			r.Post("/fling", s.handleFling)
			r.Post("/tick", s.handleTick)
			r.Post("/clear", s.handleClear)
			r.Get("/render", s.handleRender)
		})
	})
	return r
}
