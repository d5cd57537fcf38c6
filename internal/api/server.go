// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package api wires the HTTP router, the middleware chain and the domain
handlers into a runnable [http.Server].

Architecture:

  - This package is the outermost presentation boundary.
  - It is the composition root for the chi router.
  - Only this package and cmd/api import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Sherry00124/ImChat/internal/core/friend"
	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/platform/config"
	"github.com/Sherry00124/ImChat/internal/platform/constants"
	"github.com/Sherry00124/ImChat/internal/platform/middleware"
	"github.com/Sherry00124/ImChat/internal/users/account"
	"github.com/Sherry00124/ImChat/internal/users/purge"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the domain handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 503 while a dependency is down.
	Readiness http.HandlerFunc

	// Account serves profile reads and self-service updates.
	Account *account.Handler

	// Group serves groups, memberships and group history.
	Group *group.Handler

	// Friend serves friendships and direct messages.
	Friend *friend.Handler

	// Purge serves the admin account deletion.
	Purge *purge.Handler
}

// # Server Initialization

// NewServer constructs the router with the full middleware chain and
// registers all route groups. ctx bounds the rate limiter's janitor.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	// Authenticate runs before the logger so access lines carry user_id.
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing(constants.AppName))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery)
	r.Use(limiter.Middleware)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuth)
			authed.Mount("/users", h.Account.Routes())
			authed.Mount("/groups", h.Group.Routes())
			authed.Mount("/friends", h.Friend.Routes())
		})

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin)
			admin.Mount("/admin/users", h.Purge.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// # Server Lifecycle

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
