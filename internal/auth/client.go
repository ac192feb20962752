// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides the portal's authentication capability: the Client
// interface used by the login flow, a simulated implementation with a fixed
// latency, a directory implementation backed by stored accounts, and the
// argon2id password helpers.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMissingCredentials is returned when the identifier or the secret is empty.
	ErrMissingCredentials = errors.New("identifier and secret are required")
	// ErrInvalidCredentials is returned when the credentials do not match an account.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Session is the result of a successful login.
type Session struct {
	ID         string
	Identifier string
	IssuedAt   time.Time
}

// Client authenticates an identifier/secret pair.
type Client interface {
	Login(ctx context.Context, identifier, secret string) (Session, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, identifier, secret string) (Session, error)

// Login calls f.
func (f ClientFunc) Login(ctx context.Context, identifier, secret string) (Session, error) {
	return f(ctx, identifier, secret)
}

// NormalizeIdentifier trims surrounding whitespace from a login identifier.
func NormalizeIdentifier(identifier string) string {
	return strings.TrimSpace(identifier)
}

// checkPresent enforces the only validation rule of the login form:
// both fields must be non-empty.
func checkPresent(identifier, secret string) error {
	if NormalizeIdentifier(identifier) == "" || secret == "" {
		return ErrMissingCredentials
	}
	return nil
}

func newSession(identifier string, now time.Time) Session {
	return Session{
		ID:         uuid.NewString(),
		Identifier: NormalizeIdentifier(identifier),
		IssuedAt:   now,
	}
}
