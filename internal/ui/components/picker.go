// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/taskpilot-tui/internal/model"
	"github.com/jeranaias/taskpilot-tui/internal/ui/styles"
)

// =============================================================================
// CONVERSATION PICKER COMPONENT
// =============================================================================

// ConversationPicker renders the conversation list overlay.
type ConversationPicker struct {
	Conversations []model.ConversationSummary
	Selected      int
	Width         int
	Height        int
	theme         *styles.Theme
}

// NewConversationPicker creates a picker over the given summaries.
func NewConversationPicker(conversations []model.ConversationSummary, theme *styles.Theme) *ConversationPicker {
	return &ConversationPicker{
		Conversations: conversations,
		Width:         80,
		Height:        20,
		theme:         theme,
	}
}

// SetSize sets the picker dimensions.
func (p *ConversationPicker) SetSize(width, height int) {
	p.Width = width
	p.Height = height
}

// MoveUp moves the selection up.
func (p *ConversationPicker) MoveUp() {
	if p.Selected > 0 {
		p.Selected--
	}
}

// MoveDown moves the selection down.
func (p *ConversationPicker) MoveDown() {
	if p.Selected < len(p.Conversations)-1 {
		p.Selected++
	}
}

// Current returns the selected summary, or nil when the list is empty.
func (p *ConversationPicker) Current() *model.ConversationSummary {
	if len(p.Conversations) == 0 {
		return nil
	}
	return &p.Conversations[p.Selected]
}

// View renders the picker overlay.
func (p *ConversationPicker) View() string {
	title := p.theme.PickerTitle.Render("Conversations")

	if len(p.Conversations) == 0 {
		empty := p.theme.PickerMeta.Render("No conversations yet. Send a message to start one.")
		return p.theme.PickerBox.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", empty))
	}

	maxRows := p.Height - 6
	if maxRows < 3 {
		maxRows = 3
	}

	// Keep the selection visible in a window of maxRows entries.
	start := 0
	if p.Selected >= maxRows {
		start = p.Selected - maxRows + 1
	}
	end := minInt(start+maxRows, len(p.Conversations))

	rows := []string{title, ""}
	for i := start; i < end; i++ {
		c := p.Conversations[i]
		line := c.DisplayTitle()
		meta := c.UpdatedAt.Local().Format("Jan 2 15:04") + " · " + toStr(c.MessageCount) + " messages"

		if i == p.Selected {
			rows = append(rows, p.theme.PickerItemSelected.Render("> "+line))
		} else {
			rows = append(rows, p.theme.PickerItem.Render("  "+line))
		}
		rows = append(rows, p.theme.PickerMeta.Render("    "+meta))
	}

	rows = append(rows, "", p.theme.PickerMeta.Render("enter open · esc close"))
	return p.theme.PickerBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
