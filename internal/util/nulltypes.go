// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"time"
)

// NullTimeFromPtr converts a *time.Time into sql.NullTime.
func NullTimeFromPtr(ptr *time.Time) sql.NullTime {
	if ptr != nil {
		return sql.NullTime{Time: *ptr, Valid: true}
	}
	return sql.NullTime{}
}

// NullTimeNow returns a valid sql.NullTime holding the current time.
func NullTimeNow() sql.NullTime {
	return sql.NullTime{Time: time.Now(), Valid: true}
}

// NullStringFromValue creates a sql.NullString that is valid only for a
// non-empty string.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
