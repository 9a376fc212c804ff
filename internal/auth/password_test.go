// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty hash")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !CheckPassword("admin123", hash) {
		t.Fatal("correct password was rejected")
	}
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if CheckPassword("wrongpassword", hash) {
		t.Fatal("wrong password was accepted")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	// A malformed stored hash must verify as false, not panic or error.
	for _, hash := range []string{"", "not-a-hash", "$2a$garbage"} {
		if CheckPassword("admin123", hash) {
			t.Errorf("CheckPassword accepted malformed hash %q", hash)
		}
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantOK   bool
		wantErrs int
	}{
		{"valid", "Sup3rSecret", true, 0},
		{"too short", "Ab1", false, 1},
		{"no uppercase", "lowercase1", false, 1},
		{"no lowercase", "UPPERCASE1", false, 1},
		{"no digit", "NoDigitsHere", false, 1},
		{"everything wrong", "abc", false, 3},
		{"empty", "", false, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, errs := ValidatePasswordStrength(tt.password)
			if ok != tt.wantOK {
				t.Errorf("ValidatePasswordStrength(%q) ok = %v, want %v", tt.password, ok, tt.wantOK)
			}
			if len(errs) != tt.wantErrs {
				t.Errorf("ValidatePasswordStrength(%q) returned %d errors %v, want %d", tt.password, len(errs), errs, tt.wantErrs)
			}
		})
	}
}
