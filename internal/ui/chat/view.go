// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/taskpilot-tui/internal/session"
	"github.com/jeranaias/taskpilot-tui/internal/ui/components"
)

// View renders the chat interface.
func (m *Model) View() string {
	if !m.ready {
		return "Starting TaskPilot..."
	}

	if m.focus == focusPicker && m.picker != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.picker.View())
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
	}

	if m.state.HasError() {
		banner := components.NewErrorBanner(m.state.Error, m.state.Retryable, m.theme)
		banner.SetWidth(m.width)
		sections = append(sections, banner.View())
	}

	sections = append(sections, m.renderInput(), m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the top bar.
func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("TaskPilot")
	subtitle := m.theme.HeaderSubtitle.Render("chat assistant")
	return m.theme.Header.Width(m.width).Render(title + " " + subtitle)
}

// renderTranscript renders all message bubbles plus the thinking
// indicator while a send is in flight.
func (m *Model) renderTranscript() string {
	if len(m.state.Messages) == 0 && !m.state.Loading {
		return m.renderEmptyState()
	}

	var parts []string
	for _, msg := range m.state.Messages {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.width)
		parts = append(parts, bubble.View(), "")
	}

	if m.state.Loading {
		parts = append(parts, m.spinner.View()+" "+m.theme.ThinkingText.Render("Assistant is thinking..."))
	}

	return strings.Join(parts, "\n")
}

// renderEmptyState renders the blank-session hint.
func (m *Model) renderEmptyState() string {
	lines := []string{
		"",
		m.theme.HeaderTitle.Render("Welcome to TaskPilot"),
		"",
		m.theme.ThinkingText.Render("Try: \"Add buy groceries to my tasks\""),
		m.theme.ThinkingText.Render("     \"What's on my list for today?\""),
		m.theme.ThinkingText.Render("     \"Mark the dentist appointment done\""),
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

// renderInput renders the prompt line with a character counter.
func (m *Model) renderInput() string {
	counter := m.renderCharCount()
	line := m.input.View()

	gap := m.width - lipgloss.Width(line) - lipgloss.Width(counter) - 4
	if gap < 1 {
		gap = 1
	}
	return m.theme.InputContainer.Width(m.width).Render(
		line + strings.Repeat(" ", gap) + counter,
	)
}

// renderCharCount renders n/5000, amber near the limit, red past it.
func (m *Model) renderCharCount() string {
	n := len([]rune(m.input.Value()))
	text := toStr(n) + "/" + toStr(inputCharLimit)

	switch {
	case n > inputCharLimit:
		return m.theme.CharCountDanger.Render(text)
	case n > inputCharLimit-200:
		return m.theme.CharCountWarning.Render(text)
	default:
		return m.theme.CharCount.Render(text)
	}
}

// renderStatusBar renders the bottom bar.
func (m *Model) renderStatusBar() string {
	bar := components.NewStatusBar(m.theme)
	bar.SetWidth(m.width)
	bar.Online = m.state.Online
	bar.ConversationID = m.state.ConversationID
	bar.MessageCount = len(m.state.Messages)
	return bar.View()
}

// chromeHeight is the vertical space taken by everything that is not
// the transcript viewport.
func (m *Model) chromeHeight() int {
	h := 1 + 3 + 1 // header + input + status bar
	if m.state.HasError() {
		h += 4
	}
	return h
}

// toStr converts an integer to a string without using fmt package.
func toStr(n int) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// currentState exposes the last observed snapshot for tests.
func (m *Model) currentState() session.State {
	return m.state
}
