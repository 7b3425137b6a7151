// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the TaskPilot TUI.

This package contains a collection of styled components built on top of
the Bubble Tea and Lip Gloss libraries, consistent with the TaskPilot
design language.

# Core Components

## Display Components

MessageBubble (bubble.go) - Styled chat bubbles with delivery marks and
task-linkage chips.
StatusBar (statusbar.go) - Bottom bar with connectivity, conversation
context, and shortcuts.
ErrorBanner (errorbanner.go) - Dismissible error banner with a retry
hint when the error is retryable.
ConversationPicker (picker.go) - Conversation list overlay.

## Markdown

RenderMarkdown (markdown.go) - Glamour-backed terminal markdown
rendering for assistant messages, falling back to plain text.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	bar := components.NewStatusBar(theme)
	bar.SetWidth(80)
	view := bar.View()
*/
package components
