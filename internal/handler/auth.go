// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the portal's HTTP handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/portal-go/internal/auth"
	"github.com/olegiv/portal-go/internal/i18n"
	"github.com/olegiv/portal-go/internal/middleware"
	"github.com/olegiv/portal-go/internal/model"
	"github.com/olegiv/portal-go/internal/render"
	"github.com/olegiv/portal-go/internal/service"
	"github.com/olegiv/portal-go/internal/session"
)

// LoginPageData is the page data for the login template.
type LoginPageData struct {
	Email string
}

// AuthHandler handles the login, logout and language routes.
type AuthHandler struct {
	client          auth.Client
	sessions        session.Store
	renderer        *render.Renderer
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. The event service and login
// protection are optional.
func NewAuthHandler(client auth.Client, sessions session.Store, renderer *render.Renderer, events *service.EventService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		client:          client,
		sessions:        sessions,
		renderer:        renderer,
		eventService:    events,
		loginProtection: lp,
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, "", nil)
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLanguage(r)

	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "", loginErrorFlash(lang, "flash.login_failed"))
		return
	}

	identifier := auth.NormalizeIdentifier(r.PostForm.Get("email"))
	secret := r.PostForm.Get("password")
	clientIP := middleware.ClientIP(r)

	if h.loginProtection != nil && identifier != "" {
		if locked, remaining := h.loginProtection.IsAccountLocked(identifier); locked {
			h.logAuthEvent(r, model.EventLevelWarning, "Login attempt on locked account", map[string]any{"email": identifier})
			h.renderLogin(w, r, http.StatusTooManyRequests, identifier,
				loginErrorFlash(lang, "flash.login_locked", formatDuration(remaining)))
			return
		}
	}

	sess, err := h.client.Login(ctx, identifier, secret)
	if err != nil {
		h.loginFailed(w, r, lang, identifier, err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(identifier)
	}

	if err := session.Begin(ctx, h.sessions, sess.Identifier); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user logged in", "email", sess.Identifier, "ip", clientIP)
	h.logAuthEvent(r, model.EventLevelInfo, "User logged in", map[string]any{
		"email":      sess.Identifier,
		"session_id": sess.ID,
	})

	flashAndRedirect(w, r, h.renderer, redirectDashboard, render.Flash{
		Title:   i18n.T(lang, "flash.login_success_title"),
		Message: i18n.T(lang, "flash.login_success_body"),
		Type:    render.FlashSuccess,
	})
}

// loginFailed maps an auth error onto the re-rendered login page.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, lang, identifier string, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		h.renderLogin(w, r, http.StatusUnprocessableEntity, identifier, loginErrorFlash(lang, "flash.login_missing_fields"))

	case errors.Is(err, auth.ErrInvalidCredentials):
		h.logAuthEvent(r, model.EventLevelWarning, "Login failed: invalid credentials", map[string]any{"email": identifier})
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(identifier); locked {
				h.logAuthEvent(r, model.EventLevelWarning, "Account locked due to failed attempts", map[string]any{
					"email":    identifier,
					"duration": lockDuration.String(),
				})
				h.renderLogin(w, r, http.StatusTooManyRequests, identifier,
					loginErrorFlash(lang, "flash.login_locked", formatDuration(lockDuration)))
				return
			}
		}
		h.renderLogin(w, r, http.StatusUnauthorized, identifier, h.invalidCredentialsFlash(lang, identifier))

	case errors.Is(err, context.Canceled):
		// The client went away; nobody is left to answer.
		slog.Debug("login abandoned by client", "email", identifier)

	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("login timed out", "email", identifier)
		h.renderLogin(w, r, http.StatusServiceUnavailable, identifier, loginErrorFlash(lang, "flash.login_failed"))

	default:
		slog.Error("login error", "error", err, "email", identifier)
		h.renderLogin(w, r, http.StatusInternalServerError, identifier, loginErrorFlash(lang, "flash.login_failed"))
	}
}

// Logout clears the login keys and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetLanguage(r)
	identifier := session.Email(ctx, h.sessions)

	if err := session.End(ctx, h.sessions); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	if identifier != "" {
		slog.Info("user logged out", "email", identifier)
		if h.eventService != nil {
			_ = h.eventService.LogSessionEvent(ctx, model.EventLevelInfo, "User logged out",
				middleware.ClientIP(r), map[string]any{"email": identifier})
		}
	}

	flashAndRedirect(w, r, h.renderer, redirectLogin, render.Flash{
		Title:   i18n.T(lang, "flash.logout_title"),
		Message: i18n.T(lang, "flash.logout_body"),
		Type:    render.FlashInfo,
	})
}

// SetLanguage stores the chosen UI language and returns to the page the
// switch was submitted from.
func (h *AuthHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	if lang := r.PostForm.Get("lang"); i18n.IsSupported(lang) {
		h.sessions.Set(r.Context(), session.KeyLang, lang)
	}

	http.Redirect(w, r, safeRedirectPath(r.PostForm.Get("redirect"), redirectLogin), http.StatusSeeOther)
}

// CSRFError answers a rejected cross-origin submission with a flash on the login page.
func (h *AuthHandler) CSRFError(w http.ResponseWriter, r *http.Request) {
	middleware.CSRFFailure(r)
	lang := middleware.GetLanguage(r)
	flashAndRedirect(w, r, h.renderer, redirectLogin, render.Flash{
		Title:   i18n.T(lang, "flash.csrf_title"),
		Message: i18n.T(lang, "flash.csrf_body"),
		Type:    render.FlashError,
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email string, flash *render.Flash) {
	lang := middleware.GetLanguage(r)
	err := h.renderer.RenderStatus(w, r, status, templateLogin, render.TemplateData{
		Title: i18n.T(lang, "login.heading"),
		Lang:  lang,
		Flash: flash,
		Data:  LoginPageData{Email: email},
	})
	if err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

func (h *AuthHandler) logAuthEvent(r *http.Request, level, message string, metadata map[string]any) {
	if h.eventService == nil {
		return
	}
	_ = h.eventService.LogAuthEvent(r.Context(), level, message,
		middleware.ClientIP(r), r.UserAgent(), metadata)
}

// invalidCredentialsFlash tells the user how many attempts are left before
// the account is locked, when lockout is enabled.
func (h *AuthHandler) invalidCredentialsFlash(lang, identifier string) *render.Flash {
	if h.loginProtection == nil {
		return loginErrorFlash(lang, "flash.login_invalid")
	}
	return loginErrorFlash(lang, "flash.login_invalid_remaining", h.loginProtection.GetRemainingAttempts(identifier))
}

func loginErrorFlash(lang, key string, args ...any) *render.Flash {
	return &render.Flash{
		Title:   i18n.T(lang, "flash.login_error_title"),
		Message: i18n.T(lang, key, args...),
		Type:    render.FlashError,
	}
}

// formatDuration renders a lockout duration compactly, rounding up.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Round(time.Second).Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min", int((d + time.Minute - 1) / time.Minute))
	}
	return fmt.Sprintf("%dh", int((d + time.Hour - 1) / time.Hour))
}
