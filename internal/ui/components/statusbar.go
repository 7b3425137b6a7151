// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/taskpilot-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom bar: connectivity, conversation context,
// and keyboard shortcuts.
type StatusBar struct {
	Online         bool
	ConversationID string
	MessageCount   int
	Width          int
	theme          *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Online: true,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var left string
	if s.Online {
		left = s.theme.Online.Render(styles.StatusIndicators.Active + " online")
	} else {
		left = s.theme.Offline.Render(styles.StatusIndicators.Error + " offline")
	}

	if s.ConversationID != "" {
		left += s.theme.ShortcutDesc.Render("  ·  " + toStr(s.MessageCount) + " messages")
	} else {
		left += s.theme.ShortcutDesc.Render("  ·  new conversation")
	}

	shortcuts := []string{
		s.theme.ShortcutKey.Render("enter") + s.theme.ShortcutDesc.Render(" send"),
		s.theme.ShortcutKey.Render("ctrl+l") + s.theme.ShortcutDesc.Render(" conversations"),
		s.theme.ShortcutKey.Render("ctrl+n") + s.theme.ShortcutDesc.Render(" new"),
		s.theme.ShortcutKey.Render("ctrl+c") + s.theme.ShortcutDesc.Render(" quit"),
	}
	right := strings.Join(shortcuts, "  ")

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.Width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
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
