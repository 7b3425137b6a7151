// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// CONVERSATION SUMMARY
// =============================================================================

// ConversationSummary is one row of the backend's conversation list: enough
// to render a picker entry without fetching the full history.
type ConversationSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastMessage  string    `json:"last_message"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// DisplayTitle returns the title, falling back to the last-message preview
// for unnamed conversations.
func (s *ConversationSummary) DisplayTitle() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	if s.LastMessage != "" {
		runes := []rune(s.LastMessage)
		if len(runes) > 50 {
			return string(runes[:47]) + "..."
		}
		return s.LastMessage
	}
	return "New conversation"
}

// =============================================================================
// CONVERSATION DETAIL
// =============================================================================

// ConversationDetail is the full message history for one conversation,
// owned by the backend. The client caches at most one of these (the active
// conversation).
type ConversationDetail struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdatedAt derives the last-activity timestamp: the newest message's
// creation time, or the conversation's own creation time when empty.
func (d *ConversationDetail) UpdatedAt() time.Time {
	if n := len(d.Messages); n > 0 {
		return d.Messages[n-1].CreatedAt
	}
	return d.CreatedAt
}
