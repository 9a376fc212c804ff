// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
)

// defaultEventRetentionDays is how far back the prune endpoint keeps events
// when no cutoff is requested.
const defaultEventRetentionDays = 90

// EventView is the JSON shape of an event log entry.
type EventView struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	UserID    *int64          `json:"user_id"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}

func newEventView(e model.Event) EventView {
	v := EventView{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		Metadata:  json.RawMessage(e.Metadata),
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		id := e.UserID.Int64
		v.UserID = &id
	}
	if len(v.Metadata) == 0 {
		v.Metadata = json.RawMessage("{}")
	}
	return v
}

// ListEvents handles GET /api/events. The event log is operational data,
// so only super admins may read it.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePageParam(r)
	limit := parseLimitParam(r, store.DefaultEventPageSize, 200)
	offset := (page - 1) * limit

	events, err := h.queries.ListEvents(ctx, limit, offset)
	if err != nil {
		slog.Error("listing events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	total, err := h.queries.CountEvents(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}

	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, newEventView(e))
	}
	WriteSuccess(w, views, newMeta(total, page, limit))
}

// PruneEvents handles DELETE /api/events. Removes events older than the
// retention window; ?days=N overrides the default.
func (h *Handler) PruneEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days := defaultEventRetentionDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			WriteValidationError(w, map[string]string{"days": "Must be a positive number of days"})
			return
		}
		days = parsed
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	pruned, err := h.queries.PruneEvents(ctx, cutoff)
	if err != nil {
		slog.Error("pruning events", "error", err)
		WriteInternalError(w, "Failed to prune events")
		return
	}

	slog.Info("pruned event log", "removed", pruned, "days", days)
	WriteSuccess(w, map[string]int64{"pruned": pruned}, nil)
}
