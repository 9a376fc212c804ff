// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/entrehub/entrehub-go/internal/model"
)

const userColumns = "id, email, name, password_hash, role, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetUserByEmail looks up a user by email. Comparison is case-insensitive
// (the email column is COLLATE NOCASE). Returns sql.ErrNoRows if absent.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// GetUserByID looks up a user by ID. Returns sql.ErrNoRows if absent.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

// CreateUser inserts a new administrator account and returns it.
// A duplicate email surfaces as a UNIQUE constraint error from the driver;
// callers are expected to check existence first and treat the constraint
// as a backstop.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		arg.Email, arg.Name, arg.PasswordHash, arg.Role, now, now)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// UserEmailExists returns a non-zero count if a user with the email exists.
func (q *Queries) UserEmailExists(ctx context.Context, email string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count)
	return count, err
}

// CountUsers returns the total number of administrator accounts.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
