// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/taskpilot-tui/internal/ui/components"
)

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateChangedMsg:
		m.state = msg.State
		m.refreshTranscript()
		return m, m.watchCmd()

	case SendFinishedMsg, LoadFinishedMsg:
		m.state = m.controller.Snapshot()
		m.refreshTranscript()
		return m, nil

	case ConversationsMsg:
		if msg.Err != nil {
			// The picker stays closed; the error path already set the
			// controller's error banner via the classifier.
			m.state = m.controller.Snapshot()
			return m, nil
		}
		m.picker = components.NewConversationPicker(msg.Conversations, m.theme)
		m.picker.SetSize(m.width, m.height)
		m.focus = focusPicker
		return m, nil
	}

	return m.updateChildren(msg)
}

// handleResize recomputes the layout on terminal size changes.
func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	vpHeight := msg.Height - m.chromeHeight()
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 8

	if m.picker != nil {
		m.picker.SetSize(msg.Width, msg.Height)
	}

	m.refreshTranscript()
	return m, nil
}

// handleKey routes key presses by focus.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.focus == focusPicker {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		content := strings.TrimSpace(m.input.Value())
		if content == "" || m.state.Loading {
			return m, nil
		}
		m.input.Reset()
		return m, m.sendCmd(content)

	case key.Matches(msg, m.keys.Retry):
		if m.state.Loading || !m.state.Retryable {
			return m, nil
		}
		return m, m.retryCmd()

	case key.Matches(msg, m.keys.NewConvo):
		m.controller.StartNewConversation()
		m.state = m.controller.Snapshot()
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.Conversations):
		return m, m.listCmd()

	case key.Matches(msg, m.keys.Dismiss):
		if m.state.HasError() {
			m.controller.DismissError()
			m.state = m.controller.Snapshot()
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	return m.updateChildren(msg)
}

// handlePickerKey handles keys while the conversation picker is open.
func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.picker.MoveUp()
	case "down", "j":
		m.picker.MoveDown()
	case "enter":
		cur := m.picker.Current()
		m.picker = nil
		m.focus = focusInput
		if cur != nil {
			return m, m.loadCmd(cur.ID)
		}
	case "esc":
		m.picker = nil
		m.focus = focusInput
	}
	return m, nil
}

// updateChildren forwards messages to the input and viewport widgets.
func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// refreshTranscript re-renders the transcript into the viewport and
// follows the newest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
