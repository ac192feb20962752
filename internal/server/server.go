// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server assembles the portal's router from its handlers and middleware.
package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/portal-go/internal/auth"
	"github.com/olegiv/portal-go/internal/handler"
	"github.com/olegiv/portal-go/internal/middleware"
	"github.com/olegiv/portal-go/internal/portal"
	"github.com/olegiv/portal-go/internal/render"
	"github.com/olegiv/portal-go/internal/service"
	"github.com/olegiv/portal-go/internal/session"
	"github.com/olegiv/portal-go/web"
)

// DefaultRequestTimeout bounds a single request, the login delay included.
const DefaultRequestTimeout = 30 * time.Second

// staticMaxAge is the browser cache lifetime of embedded assets.
const staticMaxAge = 7 * 24 * time.Hour

// Options configures NewRouter.
type Options struct {
	// SessionManager carries the cookie-keyed session. Required.
	SessionManager *scs.SessionManager
	// AuthClient authenticates login submissions. Required.
	AuthClient auth.Client
	// Provider supplies dashboard content. Defaults to portal.NewStaticProvider().
	Provider portal.Provider

	// DB enables the audit event log and the database health check.
	DB *sql.DB

	// CSRFKey is the CSRF auth key, normally the session secret.
	CSRFKey []byte
	IsDev   bool
	Port    int

	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a reverse proxy that sets those headers.
	TrustProxy bool

	// LoginProtection throttles login submissions and locks accounts. Optional.
	LoginProtection *middleware.LoginProtection
	// RateLimiter throttles all page requests per client IP. Optional.
	RateLimiter *middleware.GlobalRateLimiter

	RequestTimeout time.Duration
	Version        string
}

// NewRouter builds the HTTP handler for the portal.
func NewRouter(opts Options) (http.Handler, error) {
	if opts.SessionManager == nil {
		return nil, errors.New("server: session manager is required")
	}
	if opts.AuthClient == nil {
		return nil, errors.New("server: auth client is required")
	}
	if opts.Provider == nil {
		opts.Provider = portal.NewStaticProvider()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	sessions := session.NewManagerStore(opts.SessionManager)

	renderer, err := render.New(render.Config{
		TemplatesFS: web.TemplatesFS(),
		Sessions:    sessions,
	})
	if err != nil {
		return nil, err
	}
	for _, name := range handler.PageTemplates {
		if !renderer.HasTemplate(name) {
			return nil, fmt.Errorf("server: missing page template %q", name)
		}
	}

	var (
		events *service.EventService
		pinger handler.Pinger
	)
	if opts.DB != nil {
		events = service.NewEventService(opts.DB)
		pinger = opts.DB
	}

	authHandler := handler.NewAuthHandler(opts.AuthClient, sessions, renderer, events, opts.LoginProtection)
	dashboardHandler := handler.NewDashboardHandler(opts.Provider, renderer)
	healthHandler := handler.NewHealthHandler(pinger, sessions, opts.Version)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(opts.IsDev)))
	r.Use(middleware.RequestPath)

	// Static files: no session, long cache.
	staticHandler := middleware.StaticCache(staticMaxAge)(
		http.StripPrefix(handler.RouteStatic+"/", http.FileServer(http.FS(web.StaticFS()))),
	)
	r.Handle(handler.RouteStatic+"/*", staticHandler)

	csrfConfig := middleware.DefaultCSRFConfig(opts.CSRFKey, opts.IsDev, opts.Port)
	csrfConfig.ErrorHandler = http.HandlerFunc(authHandler.CSRFError)

	r.Group(func(r chi.Router) {
		r.Use(opts.SessionManager.LoadAndSave)
		r.Use(middleware.Language(sessions))
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware())
		}
		r.Use(middleware.CSRF(csrfConfig))

		r.Get(handler.RouteHealth, healthHandler.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Get(handler.RouteRoot, authHandler.LoginForm)
			r.Get(handler.RouteLogin, func(w http.ResponseWriter, req *http.Request) {
				http.Redirect(w, req, handler.RouteRoot, http.StatusSeeOther)
			})
			if opts.LoginProtection != nil {
				r.With(opts.LoginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
			} else {
				r.Post(handler.RouteLogin, authHandler.Login)
			}
			r.Post(handler.RouteLogout, authHandler.Logout)
			r.Post(handler.RouteLanguage, authHandler.SetLanguage)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions, handler.RouteRoot))
			r.Get(handler.RouteDashboard, dashboardHandler.Dashboard)
		})

		r.NotFound(handler.NotFound(renderer))
	})

	return r, nil
}
