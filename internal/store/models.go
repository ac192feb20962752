// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is a directory account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// Event is an audit log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	IpAddress string
	Metadata  string // JSON object
	CreatedAt time.Time
}
