// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/taskpilot-tui/internal/model"
	"github.com/jeranaias/taskpilot-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

func TestMessageBubbleUserStates(t *testing.T) {
	theme := testTheme()

	tests := []struct {
		name   string
		status model.Status
		want   string
	}{
		{"pending shows sending mark", model.StatusPending, "sending"},
		{"failed shows failed mark", model.StatusFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := model.Message{
				Role:      model.RoleUser,
				Content:   "add milk",
				CreatedAt: time.Now(),
				Status:    tt.status,
			}
			view := NewMessageBubble(msg, theme).View()
			if !strings.Contains(view, tt.want) {
				t.Errorf("user bubble missing %q marker", tt.want)
			}
			if !strings.Contains(view, "add milk") {
				t.Error("user bubble missing content")
			}
		})
	}
}

func TestMessageBubbleSentHasNoMark(t *testing.T) {
	msg := model.Message{
		Role:      model.RoleUser,
		Content:   "hello",
		CreatedAt: time.Now(),
		Status:    model.StatusSent,
	}
	view := NewMessageBubble(msg, testTheme()).View()
	if strings.Contains(view, "sending") || strings.Contains(view, "failed") {
		t.Error("sent message should carry no delivery mark")
	}
}

func TestMessageBubbleAssistantTaskChip(t *testing.T) {
	msg := model.Message{
		Role:      model.RoleAssistant,
		Content:   "Done.",
		CreatedAt: time.Now(),
		Status:    model.StatusSent,
		TaskData:  &model.TaskData{Action: "created", TaskTitle: "Buy milk"},
	}
	view := NewMessageBubble(msg, testTheme()).View()
	if !strings.Contains(view, "Buy milk") {
		t.Error("assistant bubble missing task chip title")
	}
	if !strings.Contains(view, "created") {
		t.Error("assistant bubble missing task chip action")
	}
}

func TestErrorBanner(t *testing.T) {
	theme := testTheme()

	t.Run("empty message renders nothing", func(t *testing.T) {
		if v := NewErrorBanner("", false, theme).View(); v != "" {
			t.Errorf("expected empty view, got %q", v)
		}
	})

	t.Run("retryable shows retry hint", func(t *testing.T) {
		v := NewErrorBanner("Request timed out. Please try again.", true, theme).View()
		if !strings.Contains(v, "retry") {
			t.Error("retryable banner missing retry hint")
		}
	})

	t.Run("non-retryable hides retry hint", func(t *testing.T) {
		v := NewErrorBanner("Conversation not found.", false, theme).View()
		if strings.Contains(v, "retry") {
			t.Error("non-retryable banner must not offer retry")
		}
		if !strings.Contains(v, "dismiss") {
			t.Error("banner missing dismiss hint")
		}
	})
}

func TestStatusBar(t *testing.T) {
	theme := testTheme()

	t.Run("online", func(t *testing.T) {
		bar := NewStatusBar(theme)
		bar.Width = 120
		if !strings.Contains(bar.View(), "online") {
			t.Error("status bar missing online indicator")
		}
	})

	t.Run("offline", func(t *testing.T) {
		bar := NewStatusBar(theme)
		bar.Width = 120
		bar.Online = false
		if !strings.Contains(bar.View(), "offline") {
			t.Error("status bar missing offline indicator")
		}
	})

	t.Run("message count", func(t *testing.T) {
		bar := NewStatusBar(theme)
		bar.Width = 140
		bar.ConversationID = "c1"
		bar.MessageCount = 7
		if !strings.Contains(bar.View(), "7 messages") {
			t.Error("status bar missing message count")
		}
	})
}

func TestConversationPicker(t *testing.T) {
	theme := testTheme()
	now := time.Now()
	convs := []model.ConversationSummary{
		{ID: "c1", Title: "Groceries", LastMessage: "Added milk", UpdatedAt: now, MessageCount: 4},
		{ID: "c2", Title: "", LastMessage: "plan my week", UpdatedAt: now, MessageCount: 2},
		{ID: "c3", Title: "Errands", UpdatedAt: now, MessageCount: 9},
	}

	p := NewConversationPicker(convs, theme)

	if got := p.Current(); got == nil || got.ID != "c1" {
		t.Fatal("picker should start at the first conversation")
	}

	p.MoveDown()
	p.MoveDown()
	p.MoveDown() // clamped at the end
	if got := p.Current(); got.ID != "c3" {
		t.Errorf("selection = %s, want c3", got.ID)
	}

	p.MoveUp()
	if got := p.Current(); got.ID != "c2" {
		t.Errorf("selection = %s, want c2", got.ID)
	}

	view := p.View()
	if !strings.Contains(view, "Groceries") {
		t.Error("picker missing titled conversation")
	}
	if !strings.Contains(view, "plan my week") {
		t.Error("picker should fall back to last-message preview for unnamed conversations")
	}
}

func TestConversationPickerEmpty(t *testing.T) {
	p := NewConversationPicker(nil, testTheme())
	if p.Current() != nil {
		t.Error("empty picker has no current entry")
	}
	if !strings.Contains(p.View(), "No conversations yet") {
		t.Error("empty picker missing placeholder text")
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  []string
	}{
		{"short line untouched", "hello world", 40, []string{"hello world"}},
		{"wraps at width", "one two three four", 9, []string{"one two", "three", "four"}},
		{"preserves newlines", "a\nb", 10, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Split(wordWrap(tt.input, tt.width), "\n")
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestToStr(t *testing.T) {
	cases := map[int]string{0: "0", 7: "7", 42: "42", -3: "-3", 1000: "1000"}
	for in, want := range cases {
		if got := toStr(in); got != want {
			t.Errorf("toStr(%d) = %q, want %q", in, got, want)
		}
	}
}
