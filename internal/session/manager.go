// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// ManagerStore adapts an scs.SessionManager to Store. It only works on
// request contexts that went through the manager's LoadAndSave middleware.
type ManagerStore struct {
	sm *scs.SessionManager
}

// NewManagerStore wraps sm.
func NewManagerStore(sm *scs.SessionManager) *ManagerStore {
	return &ManagerStore{sm: sm}
}

// Get implements Store.
func (s *ManagerStore) Get(ctx context.Context, key string) string {
	return s.sm.GetString(ctx, key)
}

// Set implements Store.
func (s *ManagerStore) Set(ctx context.Context, key, value string) {
	s.sm.Put(ctx, key, value)
}

// Clear implements Store.
func (s *ManagerStore) Clear(ctx context.Context, keys ...string) {
	for _, k := range keys {
		s.sm.Remove(ctx, k)
	}
}

// Renew implements Renewer. It rotates the session token to prevent fixation.
func (s *ManagerStore) Renew(ctx context.Context) error {
	return s.sm.RenewToken(ctx)
}
