// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/stockify/internal/platform/config"
	"github.com/taibuivan/stockify/internal/platform/constants"
	"github.com/taibuivan/stockify/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// RouteProvider is implemented by every domain handler.
type RouteProvider interface {
	Routes() chi.Router
}

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here and a Mount line in [NewServer].
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus registry. Optional.
	Metrics http.Handler

	// Dashboard serves the static dashboard area behind the edge guard. Optional.
	Dashboard http.Handler

	// Auth handles registration, login, logout and password resets.
	Auth RouteProvider

	// Roles manages roles and their permission grids.
	Roles RouteProvider

	// Users manages accounts and the caller's profile.
	Users RouteProvider

	// Categories, Suppliers, Stock and Orders are the inventory resources.
	Categories RouteProvider
	Suppliers  RouteProvider
	Stock      RouteProvider
	Orders     RouteProvider
}

// Security carries the token machinery shared by the edge guard and the API.
type Security struct {
	// Verifier checks session tokens. Required.
	Verifier middleware.TokenVerifier

	// Revocations is nil when revocation checks are disabled.
	Revocations middleware.RevocationChecker

	// GuardMetrics records edge gate decisions. Optional.
	GuardMetrics middleware.GuardObserver

	// Instrument wraps every request for metrics. Optional.
	Instrument func(http.Handler) http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, security Security, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if security.Instrument != nil {
		r.Use(security.Instrument)
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.Guard(middleware.GuardConfig{
		Verifier:          security.Verifier,
		ProtectedPrefixes: cfg.GuardPrefixes,
		EntryPath:         cfg.GuardEntryPath,
		Revocations:       security.Revocations,
		Metrics:           security.GuardMetrics,
	}))

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// # Dashboard
	// Static area; the guard above has already rejected anonymous visitors.
	if h.Dashboard != nil {
		for _, prefix := range cfg.GuardPrefixes {
			prefix = strings.TrimRight(prefix, "/")
			if prefix == "" {
				continue
			}
			r.Handle(prefix, http.RedirectHandler(prefix+"/", http.StatusMovedPermanently))
			r.Handle(prefix+"/*", http.StripPrefix(prefix, h.Dashboard))
		}
	}

	// # Application API
	// Domain-specific route groups. Tokens are optional at this level; every
	// group decides what it requires.
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Authenticate(security.Verifier, security.Revocations))

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/roles", h.Roles.Routes())
		api.Mount("/users", h.Users.Routes())
		api.Mount("/categories", h.Categories.Routes())
		api.Mount("/suppliers", h.Suppliers.Routes())
		api.Mount("/stock", h.Stock.Routes())
		api.Mount("/orders", h.Orders.Routes())
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

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
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
