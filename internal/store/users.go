// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const userColumns = `id, email, name, password_hash, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// CreateUserParams holds the columns for CreateUser.
type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a directory account.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO users (email, name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+userColumns,
		arg.Email, arg.Name, arg.PasswordHash, arg.CreatedAt, arg.UpdatedAt,
	)
	return scanUser(row)
}

// GetUserByEmail returns sql.ErrNoRows when the account does not exist.
// Emails are matched case-insensitively.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	return scanUser(row)
}

// GetUserByID returns sql.ErrNoRows when the account does not exist.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// CountUsers returns the number of directory accounts.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// UpdateUserLastLoginParams holds the columns for UpdateUserLastLogin.
type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          int64
}

// UpdateUserLastLogin stamps the last successful login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, arg.LastLoginAt, arg.ID)
	return err
}

// UpdateUserPasswordParams holds the columns for UpdateUserPassword.
type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}
