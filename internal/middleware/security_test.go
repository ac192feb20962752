// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(cfg SecurityHeadersConfig, path string) http.Header {
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Header()
}

func TestDefaultSecurityHeaders_Production(t *testing.T) {
	h := serveWithHeaders(DefaultSecurityHeadersConfig(false), "/")

	csp := h.Get("Content-Security-Policy")
	for _, directive := range []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"object-src 'none'",
	} {
		if !strings.Contains(csp, directive) {
			t.Errorf("CSP %q missing %q", csp, directive)
		}
	}
	if strings.Contains(csp, "unsafe-inline") || strings.Contains(csp, "unsafe-eval") {
		t.Errorf("CSP allows inline code: %q", csp)
	}

	want := map[string]string{
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"X-Frame-Options":           "DENY",
		"X-Content-Type-Options":    "nosniff",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
	}
	for name, value := range want {
		if got := h.Get(name); got != value {
			t.Errorf("%s = %q, want %q", name, got, value)
		}
	}
	if pp := h.Get("Permissions-Policy"); !strings.Contains(pp, "camera=()") || !strings.Contains(pp, "geolocation=()") {
		t.Errorf("Permissions-Policy = %q", pp)
	}
}

func TestDefaultSecurityHeaders_DevelopmentSkipsHSTS(t *testing.T) {
	h := serveWithHeaders(DefaultSecurityHeadersConfig(true), "/dashboard")

	if got := h.Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS in development = %q, want none", got)
	}
	if h.Get("Content-Security-Policy") == "" {
		t.Error("CSP should still be sent in development")
	}
}

func TestSecurityHeaders_Options(t *testing.T) {
	tests := []struct {
		name   string
		cfg    SecurityHeadersConfig
		path   string
		header string
		want   string
	}{
		{
			name:   "hsts preload",
			cfg:    SecurityHeadersConfig{HSTSMaxAge: 600, HSTSPreload: true},
			path:   "/",
			header: "Strict-Transport-Security",
			want:   "max-age=600; preload",
		},
		{
			name:   "hsts disabled by zero max-age",
			cfg:    SecurityHeadersConfig{HSTSIncludeSubDomains: true},
			path:   "/",
			header: "Strict-Transport-Security",
			want:   "",
		},
		{
			name:   "empty frame options omitted",
			cfg:    SecurityHeadersConfig{},
			path:   "/",
			header: "X-Frame-Options",
			want:   "",
		},
		{
			name:   "excluded prefix gets nothing",
			cfg:    SecurityHeadersConfig{FrameOptions: "DENY", ExcludePaths: []string{"/static/"}},
			path:   "/static/app.css",
			header: "X-Frame-Options",
			want:   "",
		},
		{
			name:   "nosniff always set",
			cfg:    SecurityHeadersConfig{},
			path:   "/health",
			header: "X-Content-Type-Options",
			want:   "nosniff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serveWithHeaders(tt.cfg, tt.path).Get(tt.header); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestBuildCSP_KnownDirectivesFirst(t *testing.T) {
	got := buildCSP(map[string]string{
		"report-uri":  "/csp-report",
		"img-src":     "'self' data:",
		"default-src": "'self'",
		"media-src":   "'none'",
	})
	want := "default-src 'self'; img-src 'self' data:; media-src 'none'; report-uri /csp-report"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}

func TestBuildPermissionsPolicy_Sorted(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()", "fullscreen": "(self)"})
	if want := "camera=(), fullscreen=(self), usb=()"; got != want {
		t.Errorf("buildPermissionsPolicy() = %q, want %q", got, want)
	}
}
