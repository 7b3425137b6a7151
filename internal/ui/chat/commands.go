// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea commands that invoke session
// controller operations off the UI goroutine.

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// sendCmd runs a send round-trip. The optimistic pending message is
// visible as soon as the controller appends it; the command resolves
// when the backend answers.
func (m *Model) sendCmd(content string) tea.Cmd {
	return func() tea.Msg {
		// ErrSendInProgress is deliberately swallowed: the input is
		// disabled while loading, so this only races a double Enter.
		_ = m.controller.SendMessage(context.Background(), content)
		return SendFinishedMsg{}
	}
}

// retryCmd re-sends the last failed user message.
func (m *Model) retryCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.controller.RetryLastMessage(context.Background())
		return SendFinishedMsg{}
	}
}

// loadCmd loads a conversation's history into the session.
func (m *Model) loadCmd(conversationID string) tea.Cmd {
	return func() tea.Msg {
		_ = m.controller.LoadConversation(context.Background(), conversationID)
		return LoadFinishedMsg{}
	}
}

// listCmd fetches the conversation summaries for the picker.
func (m *Model) listCmd() tea.Cmd {
	return func() tea.Msg {
		convs, err := m.controller.ListConversations(context.Background(), 0, 0)
		return ConversationsMsg{Conversations: convs, Err: err}
	}
}

// watchCmd blocks on the controller's change channel and republishes
// the new state. Re-issued after each delivery so asynchronous changes
// (health transitions, logout) keep flowing into the UI.
func (m *Model) watchCmd() tea.Cmd {
	return func() tea.Msg {
		<-m.controller.Changes()
		return StateChangedMsg{State: m.controller.Snapshot()}
	}
}
