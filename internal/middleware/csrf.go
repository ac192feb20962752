// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for CSRF protection.
// filippo.io/csrf/gorilla checks Fetch metadata and Origin headers, so forms
// carry no token.
type CSRFConfig struct {
	// AuthKey is a 32-byte key; the session secret is used.
	AuthKey []byte

	// ErrorHandler is called when CSRF validation fails.
	ErrorHandler http.Handler

	// TrustedOrigins are host:port values allowed to post cross-origin.
	TrustedOrigins []string
}

// DefaultCSRFConfig returns a CSRFConfig for the given listen port. In
// development the localhost origins on that port are trusted.
func DefaultCSRFConfig(authKey []byte, isDev bool, port int) CSRFConfig {
	cfg := CSRFConfig{
		AuthKey: authKey,
	}

	if isDev {
		cfg.TrustedOrigins = []string{
			fmt.Sprintf("localhost:%d", port),
			fmt.Sprintf("127.0.0.1:%d", port),
		}
	}

	return cfg
}

// CSRF returns a middleware that rejects cross-origin state-changing requests.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	var opts []csrf.Option

	if cfg.ErrorHandler != nil {
		opts = append(opts, csrf.ErrorHandler(cfg.ErrorHandler))
	} else {
		opts = append(opts, csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)))
	}

	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}

	return csrf.Protect(cfg.AuthKey, opts...)
}

// CSRFFailure logs a rejected request with the reason reported by the csrf
// library. Custom error handlers call it before answering.
func CSRFFailure(r *http.Request) {
	reasonStr := "unknown"
	if reason := csrf.FailureReason(r); reason != nil {
		reasonStr = reason.Error()
	}
	slog.Warn("CSRF validation failed",
		"reason", reasonStr,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	CSRFFailure(r)
	http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
}
