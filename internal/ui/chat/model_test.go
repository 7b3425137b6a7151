// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/taskpilot-tui/internal/apierr"
	"github.com/jeranaias/taskpilot-tui/internal/gateway"
	"github.com/jeranaias/taskpilot-tui/internal/model"
	"github.com/jeranaias/taskpilot-tui/internal/session"
	"github.com/jeranaias/taskpilot-tui/internal/ui/styles"
)

type stubGateway struct {
	failSends bool
}

func (g *stubGateway) SendMessage(_ context.Context, content, conversationID string) (*gateway.ChatResponse, error) {
	if g.failSends {
		return nil, apierr.New(apierr.TypeNetwork, "down")
	}
	return &gateway.ChatResponse{
		ConversationID: "c1",
		MessageID:      "m-bot",
		Role:           model.RoleAssistant,
		Content:        "Done!",
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (g *stubGateway) ListConversations(context.Context, int, int) ([]model.ConversationSummary, error) {
	return []model.ConversationSummary{
		{ID: "c1", Title: "Groceries", UpdatedAt: time.Now(), MessageCount: 2},
	}, nil
}

func (g *stubGateway) GetConversationDetail(_ context.Context, id string) (*model.ConversationDetail, error) {
	return &model.ConversationDetail{ID: id, CreatedAt: time.Now()}, nil
}

type nopStore struct{}

func (nopStore) Save(string, string) {}
func (nopStore) Get(string) string   { return "" }
func (nopStore) Clear(string)        {}

func newTestModel(t *testing.T, gw session.Gateway) (*Model, *session.Controller) {
	t.Helper()
	ctl := session.NewController(gw, nopStore{}, nil, "alice")
	t.Cleanup(ctl.Close)

	m := New(ctl, styles.NewTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(*Model), ctl
}

func TestModelReadyAfterResize(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{})

	if !m.ready {
		t.Fatal("model not ready after WindowSizeMsg")
	}
	if view := m.View(); view == "" || strings.Contains(view, "Starting") {
		t.Error("resized model should render the full layout")
	}
}

func TestModelEmptyStateHint(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{})

	if !strings.Contains(m.renderTranscript(), "Welcome to TaskPilot") {
		t.Error("empty transcript should show the welcome hint")
	}
}

func TestSubmitSendsAndRendersReply(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{})

	m.input.SetValue("add milk")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("submit should produce a send command")
	}
	if m.input.Value() != "" {
		t.Error("input should clear on submit")
	}

	// Run the command synchronously and feed the result back.
	msg := cmd()
	if _, ok := msg.(SendFinishedMsg); !ok {
		t.Fatalf("send command returned %T, want SendFinishedMsg", msg)
	}
	updated, _ = m.Update(msg)
	m = updated.(*Model)

	st := m.currentState()
	if len(st.Messages) != 2 {
		t.Fatalf("transcript has %d messages, want 2", len(st.Messages))
	}
	if st.ConversationID != "c1" {
		t.Errorf("conversation id = %q, want c1", st.ConversationID)
	}
	if !strings.Contains(m.renderTranscript(), "Done!") {
		t.Error("transcript missing assistant reply")
	}
}

func TestSubmitEmptyInputIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty input must not trigger a send")
	}
}

func TestFailedSendShowsBannerAndRetryHint(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{failSends: true})

	m.input.SetValue("hello")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	updated, _ = m.Update(cmd())
	m = updated.(*Model)

	st := m.currentState()
	if st.Error != "You're offline. Please check your connection." {
		t.Errorf("error = %q", st.Error)
	}
	if !st.Retryable {
		t.Error("network failure should be retryable")
	}
	if !strings.Contains(m.View(), "retry") {
		t.Error("view missing retry hint")
	}
}

func TestDismissClearsError(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{failSends: true})

	m.input.SetValue("hello")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	updated, _ = m.Update(cmd())
	m = updated.(*Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(*Model)

	if m.currentState().HasError() {
		t.Error("esc should dismiss the error banner")
	}
}

func TestConversationPickerFlow(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{})

	// Ctrl+L requests the list.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("ctrl+l should produce a list command")
	}

	msg := cmd()
	convs, ok := msg.(ConversationsMsg)
	if !ok {
		t.Fatalf("list command returned %T", msg)
	}
	updated, _ = m.Update(convs)
	m = updated.(*Model)

	if m.focus != focusPicker || m.picker == nil {
		t.Fatal("picker should be open")
	}
	if !strings.Contains(m.View(), "Groceries") {
		t.Error("picker view missing conversation title")
	}

	// Enter loads the selected conversation.
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.focus != focusInput || m.picker != nil {
		t.Error("picker should close on enter")
	}
	if cmd == nil {
		t.Fatal("enter should produce a load command")
	}
	updated, _ = m.Update(cmd())
	m = updated.(*Model)

	if m.currentState().ConversationID != "c1" {
		t.Errorf("conversation id = %q, want c1", m.currentState().ConversationID)
	}
}

func TestNewConversationKey(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{})

	m.input.SetValue("add milk")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	updated, _ = m.Update(cmd())
	m = updated.(*Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(*Model)

	st := m.currentState()
	if len(st.Messages) != 0 || st.ConversationID != "" {
		t.Error("ctrl+n should reset the session")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t, &stubGateway{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should produce tea.Quit")
	}
}
