// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the portal.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/portal-go/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that discards everything.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary database with migrations applied.
// The database is closed when the test finishes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "portal-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// EventCount returns the number of rows in the event log.
func EventCount(t *testing.T, db *sql.DB) int64 {
	t.Helper()

	n, err := store.New(db).CountEvents(context.Background())
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	return n
}
