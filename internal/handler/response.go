// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/olegiv/portal-go/internal/i18n"
	"github.com/olegiv/portal-go/internal/middleware"
	"github.com/olegiv/portal-go/internal/render"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, target string, flash render.Flash) {
	renderer.SetFlash(r.Context(), flash)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// renderError renders the error page with a translated message. It falls
// back to a plain-text response if the page itself cannot be rendered.
func renderError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, messageKey string) {
	lang := middleware.GetLanguage(r)
	msg := i18n.T(lang, messageKey)

	err := renderer.RenderStatus(w, r, status, templateError, render.TemplateData{
		Title: i18n.T(lang, "error.title"),
		Lang:  lang,
		Data:  msg,
	})
	if err != nil {
		logAndHTTPError(w, msg, status, "failed to render error page", "error", err)
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(HeaderContentType, "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// safeRedirectPath returns target if it is a local absolute path, otherwise fallback.
func safeRedirectPath(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return target
}
