// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/entrehub/entrehub-go/internal/model"
)

// DefaultEventPageSize is the event list page size used when none is requested.
const DefaultEventPageSize = 50

const eventColumns = "id, level, category, message, user_id, metadata, created_at"

// CreateEventParams holds the fields for CreateEvent.
type CreateEventParams struct {
	Level    string
	Category string
	Message  string
	UserID   *int64
	Metadata string // JSON object, "{}" if empty
}

// CreateEvent records a system event. Used by the event log handler, so it
// must never log through slog itself.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	var userID any
	if arg.UserID != nil {
		userID = *arg.UserID
	}
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO events (level, category, message, user_id, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		arg.Level, arg.Category, arg.Message, userID, arg.Metadata, time.Now())
	return err
}

// ListEvents returns the most recent events, newest first.
func (q *Queries) ListEvents(ctx context.Context, limit, offset int) ([]model.Event, error) {
	if limit < 1 {
		limit = DefaultEventPageSize
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEvents returns the total number of recorded events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count)
	return count, err
}

// PruneEvents deletes events older than the cutoff and returns the number
// removed.
func (q *Queries) PruneEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
