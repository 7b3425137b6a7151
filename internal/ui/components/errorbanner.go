// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/taskpilot-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER COMPONENT
// =============================================================================

// ErrorBanner renders the dismissible error banner above the input.
// The retry hint appears only when the underlying error is retryable.
type ErrorBanner struct {
	Message   string
	Retryable bool
	Width     int
	theme     *styles.Theme
}

// NewErrorBanner creates an error banner.
func NewErrorBanner(message string, retryable bool, theme *styles.Theme) *ErrorBanner {
	return &ErrorBanner{
		Message:   message,
		Retryable: retryable,
		Width:     80,
		theme:     theme,
	}
}

// SetWidth sets the banner width.
func (e *ErrorBanner) SetWidth(width int) {
	e.Width = width
}

// View renders the banner, or "" when there is no error.
func (e *ErrorBanner) View() string {
	if e.Message == "" {
		return ""
	}

	msg := e.theme.ErrorMessage.Render(styles.StatusIndicators.Error + " " + e.Message)

	hint := "esc dismiss"
	if e.Retryable {
		hint = "ctrl+r retry · esc dismiss"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		msg,
		e.theme.ErrorHint.Render(hint),
	)

	width := e.Width - 4
	if width < 20 {
		width = 20
	}
	return e.theme.ErrorBox.Width(width).Render(body)
}
