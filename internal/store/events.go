// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// CreateEventParams holds the columns for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	IpAddress string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent appends an audit log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO events (level, category, message, ip_address, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id, level, category, message, ip_address, metadata, created_at`,
		arg.Level, arg.Category, arg.Message, arg.IpAddress, arg.Metadata, arg.CreatedAt,
	)
	var e Event
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.IpAddress, &e.Metadata, &e.CreatedAt)
	return e, err
}

// ListEventsParams holds pagination for ListEvents.
type ListEventsParams struct {
	Limit  int64
	Offset int64
}

// ListEvents returns events newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level, category, message, ip_address, metadata, created_at
		 FROM events ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.IpAddress, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// CountEvents returns the number of stored events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// DeleteOldEvents removes events created before cutoff and reports how many went.
func (q *Queries) DeleteOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
