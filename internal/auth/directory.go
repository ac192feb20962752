// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrAccountNotFound is returned by an AccountLookup when no account matches.
var ErrAccountNotFound = errors.New("account not found")

// Account is the subset of a stored account needed to authenticate it.
type Account struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
}

// AccountLookup is the storage the DirectoryClient authenticates against.
type AccountLookup interface {
	LookupAccount(ctx context.Context, email string) (Account, error)
	RecordLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// DirectoryClient authenticates against stored accounts with argon2id hashes.
type DirectoryClient struct {
	accounts AccountLookup
	logger   *slog.Logger
}

// NewDirectoryClient creates a DirectoryClient.
func NewDirectoryClient(accounts AccountLookup, logger *slog.Logger) *DirectoryClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryClient{accounts: accounts, logger: logger}
}

// Login verifies the secret against the account stored for identifier.
// Unknown accounts and wrong secrets both yield ErrInvalidCredentials.
func (c *DirectoryClient) Login(ctx context.Context, identifier, secret string) (Session, error) {
	if err := checkPresent(identifier, secret); err != nil {
		return Session{}, err
	}
	email := NormalizeIdentifier(identifier)

	account, err := c.accounts.LookupAccount(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			c.logger.Debug("login attempt for unknown account", "email", email)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("looking up account: %w", err)
	}

	valid, err := CheckPassword(secret, account.PasswordHash)
	if err != nil {
		return Session{}, fmt.Errorf("checking password: %w", err)
	}
	if !valid {
		c.logger.Debug("invalid password attempt", "email", email)
		return Session{}, ErrInvalidCredentials
	}

	if NeedsRehash(account.PasswordHash) {
		if hash, err := HashPassword(secret); err == nil {
			if err := c.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
				c.logger.Error("failed to re-hash password", "error", err, "account_id", account.ID)
			}
		}
	}

	now := time.Now()
	if err := c.accounts.RecordLogin(ctx, account.ID, now); err != nil {
		// Login still succeeds.
		c.logger.Error("failed to update last login time", "error", err, "account_id", account.ID)
	}

	return newSession(account.Email, now), nil
}
