// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/entrehub/entrehub-go/internal/model"
)

func TestCreateMessage(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	msg, err := q.CreateMessage(ctx, CreateMessageParams{
		Name:    "Prospect",
		Email:   "prospect@example.com",
		Phone:   "+1 555 0100",
		Message: "We need help with our launch campaign.",
	})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if msg.Status != model.MessageStatusUnread {
		t.Errorf("Status = %q, want %q", msg.Status, model.MessageStatusUnread)
	}
	if msg.ID == 0 {
		t.Error("expected non-zero message ID")
	}
}

func TestListMessagesByStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	for i := 0; i < 3; i++ {
		if _, err := q.CreateMessage(ctx, CreateMessageParams{
			Name:    fmt.Sprintf("Sender %d", i),
			Email:   fmt.Sprintf("sender-%d@example.com", i),
			Message: "hello",
		}); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	messages, err := q.ListMessages(ctx, MessageFilter{})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("message count = %d, want 3", len(messages))
	}

	// Mark one as read and filter on it.
	if _, err := q.UpdateMessage(ctx, UpdateMessageParams{
		ID:     messages[0].ID,
		Status: model.MessageStatusRead,
		Notes:  "followed up by phone",
	}); err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}

	read, err := q.ListMessages(ctx, MessageFilter{Status: model.MessageStatusRead})
	if err != nil {
		t.Fatalf("ListMessages read: %v", err)
	}
	if len(read) != 1 {
		t.Fatalf("read count = %d, want 1", len(read))
	}
	if read[0].Notes != "followed up by phone" {
		t.Errorf("Notes = %q", read[0].Notes)
	}

	total, err := q.CountMessages(ctx, MessageFilter{Status: model.MessageStatusUnread})
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if total != 2 {
		t.Errorf("unread count = %d, want 2", total)
	}
}

func TestDeleteMessage(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	msg, err := q.CreateMessage(ctx, CreateMessageParams{
		Name: "Gone", Email: "gone@example.com", Message: "bye",
	})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	if err := q.DeleteMessage(ctx, msg.ID); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	if err := q.DeleteMessage(ctx, msg.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second DeleteMessage err = %v, want sql.ErrNoRows", err)
	}
}
