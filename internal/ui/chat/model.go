// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/taskpilot-tui/internal/session"
	"github.com/jeranaias/taskpilot-tui/internal/ui/components"
	"github.com/jeranaias/taskpilot-tui/internal/ui/styles"
)

// inputCharLimit mirrors the controller's message length limit so the
// counter turns red exactly when a send would be rejected.
const inputCharLimit = session.MaxMessageLength

// focus identifies which surface receives key input.
type focus int

const (
	focusInput focus = iota
	focusPicker
)

// Model is the Bubble Tea model for the chat view.
type Model struct {
	controller *session.Controller
	theme      *styles.Theme
	keys       KeyMap

	state session.State

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	picker *components.ConversationPicker
	focus  focus

	width  int
	height int
	ready  bool
}

// New creates the chat view bound to a session controller.
func New(controller *session.Controller, theme *styles.Theme) *Model {
	ti := textinput.New()
	ti.Placeholder = "Ask TaskPilot to add, list, or complete tasks..."
	ti.CharLimit = 0 // the controller validates; the counter warns
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return &Model{
		controller: controller,
		theme:      theme,
		keys:       DefaultKeyMap(),
		state:      controller.Snapshot(),
		input:      ti,
		spinner:    sp,
		focus:      focusInput,
	}
}

// Init starts the spinner and the controller change watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.watchCmd())
}
