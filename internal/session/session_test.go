// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/olegiv/portal-go/internal/testutil"
)

func TestNew_MemoryBackend(t *testing.T) {
	sm, closeFn, err := New(Options{Backend: BackendMemory, IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })

	if sm.Store == nil {
		t.Error("expected Store to be initialized")
	}
}

func TestNew_DefaultBackendIsMemory(t *testing.T) {
	sm, closeFn, err := New(Options{IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })

	if sm.Store == nil {
		t.Error("expected Store to be initialized")
	}
}

func TestNew_SQLiteBackend(t *testing.T) {
	db := testutil.TestDB(t)

	sm, closeFn, err := New(Options{Backend: BackendSQLite, DB: db, IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })

	if sm.Store == nil {
		t.Error("expected Store to be initialized")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"sqlite without db", Options{Backend: BackendSQLite}},
		{"redis without url", Options{Backend: BackendRedis}},
		{"redis with bad url", Options{Backend: BackendRedis, RedisURL: "not-a-url"}},
		{"unknown backend", Options{Backend: "bolt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := New(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_DevMode(t *testing.T) {
	sm, closeFn, err := New(Options{IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name == cookieName {
		t.Error("expected default cookie name in dev mode")
	}
}

func TestNew_ProductionMode(t *testing.T) {
	sm, closeFn, err := New(Options{IsDev: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Name != "__Host-portal_session" {
		t.Errorf("expected __Host-portal_session cookie name, got %q", sm.Cookie.Name)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("expected Cookie.Path = '/', got %q", sm.Cookie.Path)
	}
}

func TestNew_SessionSettings(t *testing.T) {
	sm, closeFn, err := New(Options{IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })

	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite = Lax, got %v", sm.Cookie.SameSite)
	}
}

func TestNew_CustomLifetime(t *testing.T) {
	sm, closeFn, err := New(Options{IsDev: true, Lifetime: 2 * time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })

	if sm.Lifetime != 2*time.Hour {
		t.Errorf("Lifetime = %v, want 2h", sm.Lifetime)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if got := s.Get(ctx, "missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}

	s.Set(ctx, "a", "1")
	s.Set(ctx, "b", "2")
	s.Set(ctx, "a", "3")
	if got := s.Get(ctx, "a"); got != "3" {
		t.Errorf("Get(a) = %q, want 3", got)
	}

	s.Clear(ctx, "a", "missing")
	if s.Has("a") {
		t.Error("expected a to be cleared")
	}
	if got := s.Get(ctx, "b"); got != "2" {
		t.Errorf("Get(b) = %q, want 2", got)
	}
}

func TestLoggedIn(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  bool
	}{
		{"absent", "", false, false},
		{"empty", "", true, false},
		{"true", "true", true, true},
		{"any non-empty", "yes", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := NewMemoryStore()
			if tt.set {
				s.Set(ctx, KeyLoggedIn, tt.value)
			}
			if got := LoggedIn(ctx, s); got != tt.want {
				t.Errorf("LoggedIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBeginEnd(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, KeyLang, "en")

	if err := Begin(ctx, s, "aluno@universidade.edu"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if got := s.Get(ctx, KeyLoggedIn); got != "true" {
		t.Errorf("isLoggedIn = %q, want true", got)
	}
	if got := Email(ctx, s); got != "aluno@universidade.edu" {
		t.Errorf("Email() = %q", got)
	}

	if err := End(ctx, s); err != nil {
		t.Fatalf("End: %v", err)
	}
	if s.Has(KeyLoggedIn) || s.Has(KeyUserEmail) {
		t.Error("expected login keys to be removed")
	}
	if got := s.Get(ctx, KeyLang); got != "en" {
		t.Errorf("lang = %q, want en to survive logout", got)
	}
}

func TestEnd_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := End(ctx, s); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := End(ctx, s); err != nil {
		t.Fatalf("End: %v", err)
	}
	if LoggedIn(ctx, s) {
		t.Error("expected logged out")
	}
}

func TestPop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, KeyFlash, "hello")

	if got := Pop(ctx, s, KeyFlash); got != "hello" {
		t.Errorf("Pop() = %q, want hello", got)
	}
	if got := Pop(ctx, s, KeyFlash); got != "" {
		t.Errorf("second Pop() = %q, want empty", got)
	}
}
