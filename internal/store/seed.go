// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/portal-go/internal/auth"
)

// SeedAccount describes a directory account created at startup.
type SeedAccount struct {
	Email    string
	Name     string
	Password string
}

// Seed creates the seed account unless one with the same email exists.
// An empty email or password disables seeding.
func Seed(ctx context.Context, db *sql.DB, acct SeedAccount) error {
	if acct.Email == "" || acct.Password == "" {
		return nil
	}
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, acct.Email)
	if err == nil {
		slog.Info("seed account already exists, skipping seed", "email", acct.Email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for seed account: %w", err)
	}

	passwordHash, err := auth.HashPassword(acct.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        acct.Email,
		Name:         acct.Name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating seed account: %w", err)
	}

	slog.Info("created seed account", "id", user.ID, "email", user.Email)
	return nil
}
