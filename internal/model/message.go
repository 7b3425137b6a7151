// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// DELIVERY STATUS
// =============================================================================

// Status is the client-side delivery state of a message. Messages loaded
// from history are materialized as StatusSent and never change afterward.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// TaskData links an assistant message to the task it created or modified.
type TaskData struct {
	Action    string `json:"action,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
	TaskTitle string `json:"task_title,omitempty"`
}

// Message represents a single exchange turn in a conversation.
//
// ID is a locally generated temporary identifier until the message is
// confirmed by the backend. The backend does not return an id for the
// user's own message, so a confirmed user message keeps its temporary id.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	TaskData       *TaskData `json:"task_data,omitempty"`

	// Delivery state, client-held only.
	Status Status `json:"-"`
}

// NewPendingMessage creates an optimistic user message awaiting confirmation.
func NewPendingMessage(content, conversationID string) Message {
	return Message{
		ID:             TempID(),
		ConversationID: conversationID,
		Role:           RoleUser,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
		Status:         StatusPending,
	}
}

// IsTemp reports whether the message still carries a temporary identifier.
func (m *Message) IsTemp() bool {
	return len(m.ID) > 5 && m.ID[:5] == "temp-"
}

// Preview returns a truncated single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// TempID generates a temporary message identifier.
func TempID() string {
	return "temp-" + uuid.NewString()
}
