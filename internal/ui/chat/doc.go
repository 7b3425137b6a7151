// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the TaskPilot TUI.
//
// The view is a Bubble Tea model wired to the session controller: key
// presses become controller operations run as commands, and the
// transcript re-renders from a fresh state snapshot whenever an
// operation completes. The controller owns all chat state; this package
// only renders it and translates input.
//
// # Layout
//
//	header          - product name and active conversation
//	viewport        - transcript of message bubbles
//	error banner    - classifier output with retry hint (when present)
//	input           - single-line prompt with character counter
//	status bar      - connectivity, context, shortcuts
//
// A conversation picker overlay replaces the transcript while open.
package chat
