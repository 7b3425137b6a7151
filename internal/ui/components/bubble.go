// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/taskpilot-tui/internal/model"
	"github.com/jeranaias/taskpilot-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript entry: user messages as blue
// right-leaning bubbles with a delivery mark, assistant messages as
// purple left-leaning bubbles with rendered markdown and an optional
// task chip.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for one message.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderAssistantBubble()
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned feel
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)

	header := b.theme.MessageMeta.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp {
		header += " " + b.theme.MessageMeta.Render(b.Message.CreatedAt.Local().Format("15:04"))
	}
	if mark := b.deliveryMark(); mark != "" {
		header += " " + mark
	}

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// deliveryMark shows the client-side delivery state for user messages.
func (b *MessageBubble) deliveryMark() string {
	switch b.Message.Status {
	case model.StatusPending:
		return b.theme.PendingMark.Render(styles.StatusIndicators.Pending + " sending")
	case model.StatusFailed:
		return b.theme.FailedMark.Render(styles.StatusIndicators.Error + " failed")
	default:
		return ""
	}
}

// ==========================================================================
// ASSISTANT BUBBLE - Purple tones, left-aligned, markdown content
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := RenderMarkdown(b.Message.Content)
	if strings.TrimSpace(content) == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)

	bubble := b.theme.AssistantBubble.Width(contentWidth).Render(content)

	header := b.theme.MessageMeta.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp {
		header += " " + b.theme.MessageMeta.Render(b.Message.CreatedAt.Local().Format("15:04"))
	}

	parts := []string{header, bubble}
	if chip := b.renderTaskChip(); chip != "" {
		parts = append(parts, chip)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTaskChip renders the task-linkage chip for assistant messages
// that created or changed a task.
func (b *MessageBubble) renderTaskChip() string {
	td := b.Message.TaskData
	if td == nil {
		return ""
	}

	label := td.Action
	if td.TaskTitle != "" {
		if label != "" {
			label += ": "
		}
		label += td.TaskTitle
	}
	if label == "" {
		return ""
	}
	return b.theme.TaskChip.Render(styles.StatusIndicators.Success + " " + label)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// wordWrap wraps text to the given width, preserving existing newlines.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len([]rune(cur))+1+len([]rune(w)) <= width {
			cur += " " + w
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	return append(lines, cur)
}

// maxLineWidth returns the widest line in rune count.
func maxLineWidth(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if n := len([]rune(line)); n > max {
			max = n
		}
	}
	return max
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
