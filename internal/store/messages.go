// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/entrehub/entrehub-go/internal/model"
)

// DefaultMessagePageSize is the message list page size used when none is requested.
const DefaultMessagePageSize = 20

// MessageFilter describes the predicate and pagination window for contact
// message list queries.
type MessageFilter struct {
	Page   int
	Limit  int
	Status string // empty matches all statuses
}

// Normalize clamps pagination parameters to their defaults.
func (f *MessageFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultMessagePageSize
	}
}

// Offset returns the number of rows to skip for the current page.
func (f MessageFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

const messageColumns = "id, name, email, phone, message, status, notes, created_at, updated_at"

func scanMessage(row interface{ Scan(...any) error }) (model.Message, error) {
	var m model.Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Status, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// ListMessages returns the page of messages matching the filter,
// newest first.
func (q *Queries) ListMessages(ctx context.Context, f MessageFilter) ([]model.Message, error) {
	f.Normalize()

	query := "SELECT " + messageColumns + " FROM messages"
	var args []any
	if f.Status != "" {
		query += " WHERE status = ?"
		args = append(args, f.Status)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset())

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// CountMessages returns the number of messages matching the filter.
func (q *Queries) CountMessages(ctx context.Context, f MessageFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM messages"
	var args []any
	if f.Status != "" {
		query += " WHERE status = ?"
		args = append(args, f.Status)
	}
	var count int64
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// GetMessageByID looks up a message by ID. Returns sql.ErrNoRows if absent.
func (q *Queries) GetMessageByID(ctx context.Context, id int64) (model.Message, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id = ?", id)
	return scanMessage(row)
}

// CreateMessageParams holds the fields for CreateMessage.
type CreateMessageParams struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// CreateMessage inserts a new contact message with status UNREAD.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (model.Message, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO messages (name, email, phone, message, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		arg.Name, arg.Email, arg.Phone, arg.Message, model.MessageStatusUnread, now, now)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	return q.GetMessageByID(ctx, id)
}

// UpdateMessageParams holds the mutable fields for UpdateMessage.
type UpdateMessageParams struct {
	ID     int64
	Status string
	Notes  string
}

// UpdateMessage writes the status and notes of a message and returns it.
func (q *Queries) UpdateMessage(ctx context.Context, arg UpdateMessageParams) (model.Message, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE messages SET status = ?, notes = ?, updated_at = ? WHERE id = ?",
		arg.Status, arg.Notes, time.Now(), arg.ID)
	if err != nil {
		return model.Message{}, err
	}
	return q.GetMessageByID(ctx, arg.ID)
}

// DeleteMessage removes a message. Returns sql.ErrNoRows if no row matched.
func (q *Queries) DeleteMessage(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "messages", id)
}
