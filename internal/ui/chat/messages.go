// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the chat view.
// All message types follow Bubble Tea conventions and are immutable.

package chat

import (
	"github.com/jeranaias/taskpilot-tui/internal/model"
	"github.com/jeranaias/taskpilot-tui/internal/session"
)

// =============================================================================
// CONTROLLER MESSAGES
// =============================================================================

// StateChangedMsg carries a fresh controller snapshot after an operation
// or an asynchronous change (health transition, logout).
type StateChangedMsg struct {
	State session.State
}

// SendFinishedMsg signals that a send round-trip completed; the result,
// success or failure, is already reflected in the controller state.
type SendFinishedMsg struct{}

// LoadFinishedMsg signals that a conversation load completed.
type LoadFinishedMsg struct{}

// ConversationsMsg delivers the conversation list for the picker.
type ConversationsMsg struct {
	Conversations []model.ConversationSummary
	Err           error
}
