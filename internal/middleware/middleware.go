// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the session gate,
// language selection, and request protection.
package middleware

import (
	"context"
	"net"
	"net/http"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyIdentifier  ContextKey = "identifier"
	ContextKeyLanguage    ContextKey = "language"
	ContextKeyRequestPath ContextKey = "request_path"
)

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// ClientIP returns the host part of RemoteAddr. Forwarding headers are not
// read here; behind a trusted proxy chi's RealIP rewrites RemoteAddr first.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
