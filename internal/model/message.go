// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Contact message statuses.
const (
	MessageStatusUnread   = "UNREAD"
	MessageStatusRead     = "READ"
	MessageStatusReplied  = "REPLIED"
	MessageStatusArchived = "ARCHIVED"
)

// IsValidMessageStatus reports whether status is a known message status.
func IsValidMessageStatus(status string) bool {
	switch status {
	case MessageStatusUnread, MessageStatusRead, MessageStatusReplied, MessageStatusArchived:
		return true
	}
	return false
}

// Message represents a contact form submission from a site visitor.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
