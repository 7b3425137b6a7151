// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"time"

	"github.com/jeranaias/taskpilot-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatRequest is the POST /api/chat request body.
type chatRequest struct {
	Content        string `json:"content"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the backend's reply to a sent message. It carries only
// the assistant's message; the user's own message is confirmed implicitly
// by the 2xx status.
type ChatResponse struct {
	ConversationID string          `json:"conversation_id"`
	MessageID      string          `json:"message_id"`
	Role           model.Role      `json:"role"`
	Content        string          `json:"content"`
	CreatedAt      time.Time       `json:"created_at"`
	TaskData       *model.TaskData `json:"task_data,omitempty"`
}

// AssistantMessage converts the reply into a sent assistant message.
func (r *ChatResponse) AssistantMessage() model.Message {
	return model.Message{
		ID:             r.MessageID,
		ConversationID: r.ConversationID,
		Role:           r.Role,
		Content:        r.Content,
		CreatedAt:      r.CreatedAt,
		TaskData:       r.TaskData,
		Status:         model.StatusSent,
	}
}

// conversationDetailResponse is the GET /api/conversations/{id} body.
// Message ids arrive under "message_id" here, unlike the list endpoint.
type conversationDetailResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []struct {
		MessageID string          `json:"message_id"`
		Role      model.Role      `json:"role"`
		Content   string          `json:"content"`
		CreatedAt time.Time       `json:"created_at"`
		TaskData  *model.TaskData `json:"task_data,omitempty"`
	} `json:"messages"`
}

// toDetail converts the wire shape to the domain type. History messages
// are always materialized as sent.
func (w *conversationDetailResponse) toDetail() *model.ConversationDetail {
	detail := &model.ConversationDetail{
		ID:        w.ID,
		CreatedAt: w.CreatedAt,
		Messages:  make([]model.Message, 0, len(w.Messages)),
	}
	for _, m := range w.Messages {
		detail.Messages = append(detail.Messages, model.Message{
			ID:             m.MessageID,
			ConversationID: w.ID,
			Role:           m.Role,
			Content:        m.Content,
			CreatedAt:      m.CreatedAt,
			TaskData:       m.TaskData,
			Status:         model.StatusSent,
		})
	}
	return detail
}

// healthResponse is the GET /health body.
type healthResponse struct {
	Status string `json:"status"`
}
