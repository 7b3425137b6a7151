// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

func TestNewPendingMessage(t *testing.T) {
	msg := NewPendingMessage("hello", "")

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Status != StatusPending {
		t.Errorf("Status = %q, want %q", msg.Status, StatusPending)
	}
	if msg.ConversationID != "" {
		t.Errorf("ConversationID = %q, want empty", msg.ConversationID)
	}
	if !strings.HasPrefix(msg.ID, "temp-") {
		t.Errorf("ID should start with 'temp-', got %q", msg.ID)
	}
	if !msg.IsTemp() {
		t.Error("IsTemp() = false for a freshly created pending message")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestTempIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := TempID()
		if seen[id] {
			t.Fatalf("duplicate temp id %q", id)
		}
		seen[id] = true
	}
}

func TestMessagePreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short", "hi", 10, "hi"},
		{"exact", "1234567890", 10, "1234567890"},
		{"truncated", "hello world, this is long", 10, "hello w..."},
		{"unicode", "héllo wörld exceeding", 10, "héllo w..."},
		{"tiny max", "hello", 2, "he"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Message{Content: tt.content}
			if got := msg.Preview(tt.maxLen); got != tt.want {
				t.Errorf("Preview(%d) = %q, want %q", tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestRoleDisplayName(t *testing.T) {
	if got := RoleUser.DisplayName(); got != "You" {
		t.Errorf("RoleUser.DisplayName() = %q, want You", got)
	}
	if got := RoleAssistant.DisplayName(); got != "Assistant" {
		t.Errorf("RoleAssistant.DisplayName() = %q, want Assistant", got)
	}
	if got := Role("system").DisplayName(); got != "system" {
		t.Errorf("unknown role DisplayName() = %q, want passthrough", got)
	}
}

func TestConversationSummaryDisplayTitle(t *testing.T) {
	withTitle := ConversationSummary{Title: "Groceries", LastMessage: "Add milk"}
	if got := withTitle.DisplayTitle(); got != "Groceries" {
		t.Errorf("DisplayTitle() = %q, want Groceries", got)
	}

	noTitle := ConversationSummary{LastMessage: "Add milk"}
	if got := noTitle.DisplayTitle(); got != "Add milk" {
		t.Errorf("DisplayTitle() = %q, want last message", got)
	}

	empty := ConversationSummary{}
	if got := empty.DisplayTitle(); got != "New conversation" {
		t.Errorf("DisplayTitle() = %q, want fallback", got)
	}
}

func TestConversationDetailUpdatedAt(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	last := created.Add(2 * time.Hour)

	empty := ConversationDetail{ID: "c1", CreatedAt: created}
	if got := empty.UpdatedAt(); !got.Equal(created) {
		t.Errorf("empty UpdatedAt() = %v, want %v", got, created)
	}

	detail := ConversationDetail{
		ID:        "c1",
		CreatedAt: created,
		Messages: []Message{
			{ID: "m1", CreatedAt: created.Add(time.Hour)},
			{ID: "m2", CreatedAt: last},
		},
	}
	if got := detail.UpdatedAt(); !got.Equal(last) {
		t.Errorf("UpdatedAt() = %v, want %v", got, last)
	}
}
