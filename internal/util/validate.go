// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s parses as a bare RFC 5322 address.
// Display names ("Alice <a@b.c>") are rejected.
func IsValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

// NormalizeEmail lowercases and trims an email address for
// case-insensitive comparison and storage.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
