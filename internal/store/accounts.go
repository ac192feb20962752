// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/olegiv/portal-go/internal/auth"
)

// Accounts exposes the users table as an auth.AccountLookup.
type Accounts struct {
	queries *Queries
}

// NewAccounts creates an Accounts lookup over db.
func NewAccounts(db DBTX) *Accounts {
	return &Accounts{queries: New(db)}
}

// LookupAccount implements auth.AccountLookup.
func (a *Accounts) LookupAccount(ctx context.Context, email string) (auth.Account, error) {
	u, err := a.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Account{}, auth.ErrAccountNotFound
		}
		return auth.Account{}, err
	}
	return auth.Account{ID: u.ID, Email: u.Email, Name: u.Name, PasswordHash: u.PasswordHash}, nil
}

// RecordLogin implements auth.AccountLookup.
func (a *Accounts) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	return a.queries.UpdateUserLastLogin(ctx, UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: at.UTC(), Valid: true},
		ID:          id,
	})
}

// UpdatePasswordHash implements auth.AccountLookup.
func (a *Accounts) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return a.queries.UpdateUserPassword(ctx, UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now().UTC(),
		ID:           id,
	})
}
