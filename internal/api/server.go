// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/web are allowed to import net/http server primitives.

Request pipeline for application pages:

	ClientIP → RequestID → StructuredLogger → PanicRecovery → RateLimit → CleanPath →
	StripSlashes → Timeout → MethodOverride → Session → CurrentUser → route guards → action
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/wanderlust/internal/listing"
	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/config"
	"github.com/taibuivan/wanderlust/internal/platform/constants"
	"github.com/taibuivan/wanderlust/internal/platform/middleware"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
	"github.com/taibuivan/wanderlust/internal/review"
	"github.com/taibuivan/wanderlust/internal/users/account"
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

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Uploads serves stored listing images.
	Uploads http.Handler

	// Accounts handles signup, login and logout.
	Accounts *account.Handler

	// Listings handles the listing pages.
	Listings *listing.Handler

	// Reviews handles reviews nested under a listing.
	Reviews *review.Handler
}

// Interceptors resolve the session and the current user for application pages.
type Interceptors struct {
	// Session loads or issues the session cookie.
	Session func(http.Handler) http.Handler

	// CurrentUser resolves the session's user into an identity.
	CurrentUser func(http.Handler) http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, responder *respond.Responder, interceptors Interceptors, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.ClientIP(cfg.TrustedProxyPrefixes()))
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(responder))
	r.Use(middleware.RateLimit(ctx, responder))
	r.Use(chimw.CleanPath)
	r.Use(chimw.StripSlashes)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.MethodOverride)

	// Unmatched routes share the single error page. These must be set before
	// any Mount so sub-routers inherit them.
	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		responder.Error(writer, request, apperr.PageNotFound())
	})
	r.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		responder.Error(writer, request, apperr.MethodNotAllowed())
	})

	// # Infrastructure Endpoints
	// Health probes and static images carry no session.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Uploads != nil {
		r.Handle(constants.UploadsPath+"/*", http.StripPrefix(constants.UploadsPath, h.Uploads))
	}

	// # Application Pages
	r.Group(func(app chi.Router) {
		app.Use(interceptors.Session)
		app.Use(interceptors.CurrentUser)

		app.Get("/", func(writer http.ResponseWriter, request *http.Request) {
			respond.Redirect(writer, request, constants.ListingsPath)
		})

		listings := h.Listings.Routes()
		listings.Mount("/{id}/reviews", h.Reviews.Routes())

		app.Mount(constants.ListingsPath, listings)
		app.Mount("/users", h.Accounts.Routes())
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

// Handler returns the root router. Tests drive it without a listener.
func (s *Server) Handler() http.Handler { return s.router }

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
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
