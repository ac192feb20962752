// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/olegiv/portal-go/internal/session"
)

// RequireSession redirects to loginPath unless the login flag is set in the
// session. On success the stored identifier, possibly empty, is put in the
// request context and the response is marked uncacheable.
func RequireSession(store session.Store, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !session.LoggedIn(ctx, store) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			noStore(w)
			ctx = context.WithValue(ctx, ContextKeyIdentifier, session.Email(ctx, store))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentifier returns the identifier stored by RequireSession, or "".
func GetIdentifier(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyIdentifier).(string)
	return id
}
