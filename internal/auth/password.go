// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and JWT session token utilities
// for administrator credential storage and stateless authentication.
package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the bcrypt work factor. High enough to resist offline
// brute force while keeping interactive login well under a second.
const BcryptCost = 12

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// HashPassword creates a bcrypt hash of the password.
// Hashing failures are internal errors, not validation errors; run
// ValidatePasswordStrength before calling this.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a bcrypt hash.
// Returns false for a malformed hash rather than an error: a stored hash
// that cannot be parsed is indistinguishable from a wrong password to the
// caller.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength checks a plaintext password against the
// minimum policy. Returns true with no errors when the password is
// acceptable, otherwise false with one message per violation.
func ValidatePasswordStrength(password string) (bool, []string) {
	var errs []string

	if len(password) < MinPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain at least one digit")
	}

	return len(errs) == 0, errs
}
