// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/portal-go/internal/session"
)

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name         string
		values       map[string]string
		wantStatus   int
		wantLocation string
		wantIdentity string
		wantBody     bool
	}{
		{
			name:         "no session",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/",
		},
		{
			name:         "flag empty",
			values:       map[string]string{session.KeyLoggedIn: "", session.KeyUserEmail: "a@b.com"},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/",
		},
		{
			name:         "logged in",
			values:       map[string]string{session.KeyLoggedIn: "true", session.KeyUserEmail: "a@b.com"},
			wantStatus:   http.StatusOK,
			wantIdentity: "a@b.com",
			wantBody:     true,
		},
		{
			name:       "logged in without identifier",
			values:     map[string]string{session.KeyLoggedIn: "true"},
			wantStatus: http.StatusOK,
			wantBody:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			for k, v := range tt.values {
				store.Set(context.Background(), k, v)
			}

			var gotIdentity string
			called := false
			handler := RequireSession(store, "/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotIdentity = GetIdentifier(r)
				_, _ = w.Write([]byte("dashboard"))
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
			if called != tt.wantBody {
				t.Errorf("handler called = %v, want %v", called, tt.wantBody)
			}
			if gotIdentity != tt.wantIdentity {
				t.Errorf("identifier = %q, want %q", gotIdentity, tt.wantIdentity)
			}
			if tt.wantBody && rec.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", rec.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestGetIdentifier_Empty(t *testing.T) {
	if got := GetIdentifier(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Errorf("GetIdentifier() = %q, want empty", got)
	}
}
