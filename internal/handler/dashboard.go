// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/portal-go/internal/middleware"
	"github.com/olegiv/portal-go/internal/portal"
	"github.com/olegiv/portal-go/internal/render"
)

// DashboardHandler renders the session-gated dashboard.
type DashboardHandler struct {
	provider portal.Provider
	renderer *render.Renderer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(provider portal.Provider, renderer *render.Renderer) *DashboardHandler {
	return &DashboardHandler{
		provider: provider,
		renderer: renderer,
	}
}

// Dashboard handles GET /dashboard. It must be mounted behind
// middleware.RequireSession.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	identifier := middleware.GetIdentifier(r)

	dash, err := h.provider.Dashboard(r.Context(), lang, identifier)
	if err != nil {
		slog.Error("failed to load dashboard", "error", err, "email", identifier)
		renderError(w, r, h.renderer, http.StatusInternalServerError, "error.server")
		return
	}

	err = h.renderer.Render(w, r, templateDashboard, render.TemplateData{
		Lang: lang,
		Data: dash,
	})
	if err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}

// NotFound renders the error page with status 404.
func NotFound(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, renderer, http.StatusNotFound, "error.not_found")
	}
}
