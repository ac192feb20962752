// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/olegiv/portal-go/internal/i18n"
	"github.com/olegiv/portal-go/internal/session"
)

// Language creates middleware that resolves the UI language for the request.
// Priority order:
// 1. Preference saved in the session
// 2. Accept-Language header
// 3. Default language
func Language(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ResolveLanguage(r, store)
			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveLanguage picks the UI language without touching the context.
func ResolveLanguage(r *http.Request, store session.Store) string {
	if store != nil {
		if lang := store.Get(r.Context(), session.KeyLang); lang != "" && i18n.IsSupported(lang) {
			return lang
		}
	}
	if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
		return i18n.MatchLanguage(acceptLang)
	}
	return i18n.DefaultLanguage
}

// GetLanguage returns the language chosen by Language, or the default.
func GetLanguage(r *http.Request) string {
	lang, ok := r.Context().Value(ContextKeyLanguage).(string)
	if !ok || lang == "" {
		return i18n.DefaultLanguage
	}
	return lang
}
