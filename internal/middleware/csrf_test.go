// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, 9090)

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}

	want := map[string]bool{"localhost:9090": true, "127.0.0.1:9090": true}
	if len(cfg.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
	for _, origin := range cfg.TrustedOrigins {
		if !want[origin] {
			t.Errorf("unexpected TrustedOrigin: %s", origin)
		}
		// The csrf library expects host:port, not a URL
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin should be host:port, not full URL: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, 8080)

	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %d", len(cfg.TrustedOrigins))
	}
}

func TestCSRF(t *testing.T) {
	var rejected bool
	cfg := DefaultCSRFConfig(testAuthKey, false, 8080)
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rejected = true
		CSRFFailure(r)
		w.WriteHeader(http.StatusForbidden)
	})

	handler := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		method     string
		headers    map[string]string
		wantStatus int
	}{
		{"safe method", http.MethodGet, map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusOK},
		{"same origin post", http.MethodPost, map[string]string{"Sec-Fetch-Site": "same-origin"}, http.StatusOK},
		{"non-browser post", http.MethodPost, nil, http.StatusOK},
		{"cross-site post", http.MethodPost, map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejected = false
			req := httptest.NewRequest(tt.method, "http://portal.example/login", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rejected != (tt.wantStatus == http.StatusForbidden) {
				t.Errorf("error handler called = %v", rejected)
			}
		})
	}
}
