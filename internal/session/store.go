// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session holds the per-browser session state of the portal behind a
// small key-value Store interface, and builds the scs session manager that
// backs it in production.
package session

import (
	"context"
	"sync"
)

// Keys persisted for a logged-in browser.
const (
	KeyLoggedIn  = "isLoggedIn"
	KeyUserEmail = "userEmail"
)

// Keys for the one-shot notification and the UI language.
const (
	KeyFlash      = "flash"
	KeyFlashTitle = "flash_title"
	KeyFlashType  = "flash_type"
	KeyLang       = "lang"
)

// loggedInValue is written to KeyLoggedIn on login.
const loggedInValue = "true"

// Store is the session-scoped key-value state of one browser.
// A missing key reads as the empty string.
type Store interface {
	Get(ctx context.Context, key string) string
	Set(ctx context.Context, key, value string)
	Clear(ctx context.Context, keys ...string)
}

// Renewer is implemented by stores that can rotate the session identifier.
type Renewer interface {
	Renew(ctx context.Context) error
}

// LoggedIn reports whether the login flag is set. Any non-empty value counts.
func LoggedIn(ctx context.Context, s Store) bool {
	return s.Get(ctx, KeyLoggedIn) != ""
}

// Email returns the identifier stored at login, or "".
func Email(ctx context.Context, s Store) string {
	return s.Get(ctx, KeyUserEmail)
}

// Begin records a successful login for identifier. The session identifier is
// rotated first when the store supports it.
func Begin(ctx context.Context, s Store, identifier string) error {
	if err := renew(ctx, s); err != nil {
		return err
	}
	s.Set(ctx, KeyLoggedIn, loggedInValue)
	s.Set(ctx, KeyUserEmail, identifier)
	return nil
}

// End clears the login flag and identifier and rotates the session identifier.
// Other keys (language, pending flash) survive.
func End(ctx context.Context, s Store) error {
	s.Clear(ctx, KeyLoggedIn, KeyUserEmail)
	return renew(ctx, s)
}

// Pop returns the value of key and removes it.
func Pop(ctx context.Context, s Store, key string) string {
	v := s.Get(ctx, key)
	if v != "" {
		s.Clear(ctx, key)
	}
	return v
}

func renew(ctx context.Context, s Store) error {
	if r, ok := s.(Renewer); ok {
		return r.Renew(ctx)
	}
	return nil
}

// MemoryStore is a Store holding the state of a single browser profile in
// memory. It ignores the context; every caller shares the same state.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
}

// Has reports whether key is present, even with an empty value.
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}
