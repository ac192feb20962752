// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestManagerStore_RoundTrip(t *testing.T) {
	sm, closeFn, err := New(Options{IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })
	s := NewManagerStore(sm)

	mux := http.NewServeMux()
	mux.HandleFunc("/begin", func(w http.ResponseWriter, r *http.Request) {
		if err := Begin(r.Context(), s, "aluno@universidade.edu"); err != nil {
			t.Errorf("Begin: %v", err)
		}
	})
	mux.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		if LoggedIn(r.Context(), s) {
			_, _ = w.Write([]byte(Email(r.Context(), s)))
		}
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		if err := End(r.Context(), s); err != nil {
			t.Errorf("End: %v", err)
		}
	})
	h := sm.LoadAndSave(mux)

	do := func(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	cookieOf := func(rec *httptest.ResponseRecorder) *http.Cookie {
		for _, c := range rec.Result().Cookies() {
			if c.Name == sm.Cookie.Name {
				return c
			}
		}
		return nil
	}

	rec := do("/begin", nil)
	cookie := cookieOf(rec)
	if cookie == nil {
		t.Fatal("expected session cookie after login")
	}

	rec = do("/check", cookie)
	if got := rec.Body.String(); got != "aluno@universidade.edu" {
		t.Errorf("check body = %q, want identifier", got)
	}

	rec = do("/end", cookie)
	renewed := cookieOf(rec)
	if renewed == nil {
		t.Fatal("expected renewed cookie after logout")
	}
	if renewed.Value == cookie.Value {
		t.Error("expected session token to rotate on logout")
	}

	rec = do("/check", renewed)
	if got := rec.Body.String(); got != "" {
		t.Errorf("check body after logout = %q, want empty", got)
	}
}
