// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/taskpilot-tui/internal/apierr"
	"github.com/jeranaias/taskpilot-tui/internal/events"
	"github.com/jeranaias/taskpilot-tui/internal/gateway"
	"github.com/jeranaias/taskpilot-tui/internal/model"
)

// MaxMessageLength is the largest accepted message, matching the
// backend's limit. Validated client-side so oversized input never
// reaches the wire.
const MaxMessageLength = 5000

// Validation messages. Local validation never enters the transcript;
// it only sets the error field.
const (
	errEmptyMessage   = "Message cannot be empty"
	errMessageTooLong = "Message too long (max 5000 characters)"
)

// ErrSendInProgress is returned when a send is invoked while another is
// still in flight. Overlapping sends are rejected rather than queued;
// the UI disables the send affordance while Loading is set.
var ErrSendInProgress = errors.New("send already in progress")

// Gateway is the backend surface the controller depends on.
// gateway.Client satisfies this.
type Gateway interface {
	SendMessage(ctx context.Context, content, conversationID string) (*gateway.ChatResponse, error)
	ListConversations(ctx context.Context, limit, offset int) ([]model.ConversationSummary, error)
	GetConversationDetail(ctx context.Context, conversationID string) (*model.ConversationDetail, error)
}

// Storage persists the active conversation per user. sessionstore.Store
// satisfies this; all operations are best-effort and must not fail.
type Storage interface {
	Save(userID, conversationID string)
	Get(userID string) string
	Clear(userID string)
}

// State is a read-only snapshot of the session. Renderers hold a State,
// never the controller's internals.
type State struct {
	Messages       []model.Message
	Loading        bool
	Error          string
	Retryable      bool
	ConversationID string
	UserID         string
	Online         bool
}

// HasError reports whether an error banner should be shown.
func (s State) HasError() bool {
	return s.Error != ""
}

// Controller owns the chat session state machine.
//
// Messages live in a keyed map plus an ordered id list, so reconciling
// an optimistic entry is an O(1) map update and the one-pending
// invariant is checkable by scanning statuses. All state mutation
// happens through the exported operations, under the mutex; the lock is
// released across network calls so renderers can snapshot mid-flight.
type Controller struct {
	mu sync.Mutex

	gw    Gateway
	store Storage

	userID string

	byID  map[string]*model.Message
	order []string

	loading        bool
	errMsg         string
	retryable      bool
	conversationID string
	online         bool

	// sending serializes sendMessage; distinct from loading, which also
	// covers history fetches.
	sending bool

	// ctx bounds all outstanding requests; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	// notify coalesces change signals for the UI.
	notify chan struct{}

	unsubscribe func()
}

// NewController creates a controller for one authenticated user.
//
// The event bus is optional; when present, the controller resets itself
// on logout so a future login starts clean.
func NewController(gw Gateway, store Storage, bus *events.Bus, userID string) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		gw:     gw,
		store:  store,
		userID: userID,
		byID:   make(map[string]*model.Message),
		online: true,
		ctx:    ctx,
		cancel: cancel,
		notify: make(chan struct{}, 1),
	}
	if bus != nil {
		c.unsubscribe = bus.Subscribe(events.UserLoggedOut, func(events.Event) {
			c.StartNewConversation()
		})
	}
	return c
}

// Close cancels outstanding requests and detaches from the event bus.
func (c *Controller) Close() {
	c.cancel()
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Changes returns a channel that receives a signal after state changes.
// Signals are coalesced; receivers should re-snapshot on each one.
func (c *Controller) Changes() <-chan struct{} {
	return c.notify
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	msgs := make([]model.Message, 0, len(c.order))
	for _, id := range c.order {
		msgs = append(msgs, *c.byID[id])
	}
	return State{
		Messages:       msgs,
		Loading:        c.loading,
		Error:          c.errMsg,
		Retryable:      c.retryable,
		ConversationID: c.conversationID,
		UserID:         c.userID,
		Online:         c.online,
	}
}

// signal wakes any Changes listener without blocking.
func (c *Controller) signal() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SendMessage validates content, appends an optimistic pending user
// message, and performs the backend round-trip.
//
// Validation failures set the error field and return nil without
// touching the transcript. A send while another is in flight returns
// ErrSendInProgress and changes nothing.
func (c *Controller) SendMessage(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)

	c.mu.Lock()
	if content == "" {
		c.errMsg = errEmptyMessage
		c.retryable = false
		c.mu.Unlock()
		c.signal()
		return nil
	}
	if len([]rune(content)) > MaxMessageLength {
		c.errMsg = errMessageTooLong
		c.retryable = false
		c.mu.Unlock()
		c.signal()
		return nil
	}
	if c.sending {
		c.mu.Unlock()
		return ErrSendInProgress
	}

	c.errMsg = ""
	c.retryable = false

	pending := model.NewPendingMessage(content, c.conversationID)
	c.byID[pending.ID] = &pending
	c.order = append(c.order, pending.ID)

	c.loading = true
	c.sending = true
	convID := c.conversationID
	c.mu.Unlock()
	c.signal()

	resp, err := c.gw.SendMessage(c.requestContext(ctx), content, convID)

	c.mu.Lock()
	if err != nil {
		cls := apierr.Classify(apierr.From(err))
		c.errMsg = cls.UserMessage
		c.retryable = cls.Retryable
		if m, ok := c.byID[pending.ID]; ok {
			m.Status = model.StatusFailed
		}
	} else {
		// The backend confirms the user's message implicitly; it keeps
		// its temporary id and picks up the conversation id.
		if m, ok := c.byID[pending.ID]; ok {
			m.Status = model.StatusSent
			m.ConversationID = resp.ConversationID
		}

		assistant := resp.AssistantMessage()
		c.byID[assistant.ID] = &assistant
		c.order = append(c.order, assistant.ID)

		if c.conversationID == "" {
			c.conversationID = resp.ConversationID
			c.store.Save(c.userID, resp.ConversationID)
		}
	}
	c.loading = false
	c.sending = false
	c.mu.Unlock()
	c.signal()
	return nil
}

// RetryLastMessage resends the last message if and only if it is a
// failed user message; anything else is a no-op. The stale failed entry
// is removed before resending, so the transcript never shows both the
// failed and the retried copy of the same text.
func (c *Controller) RetryLastMessage(ctx context.Context) error {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrSendInProgress
	}
	n := len(c.order)
	if n == 0 {
		c.mu.Unlock()
		return nil
	}
	last := c.byID[c.order[n-1]]
	if last.Role != model.RoleUser || last.Status != model.StatusFailed {
		c.mu.Unlock()
		return nil
	}

	content := last.Content
	delete(c.byID, last.ID)
	c.order = c.order[:n-1]
	c.mu.Unlock()

	return c.SendMessage(ctx, content)
}

// LoadConversation replaces the transcript with a conversation's full
// history. On failure the previous transcript and conversation id are
// left untouched; only the error banner changes.
func (c *Controller) LoadConversation(ctx context.Context, conversationID string) error {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrSendInProgress
	}
	c.loading = true
	c.errMsg = ""
	c.retryable = false
	c.mu.Unlock()
	c.signal()

	detail, err := c.gw.GetConversationDetail(c.requestContext(ctx), conversationID)

	c.mu.Lock()
	if err != nil {
		cls := apierr.Classify(apierr.From(err))
		c.errMsg = cls.UserMessage
		c.retryable = cls.Retryable
	} else {
		c.byID = make(map[string]*model.Message, len(detail.Messages))
		c.order = make([]string, 0, len(detail.Messages))
		for i := range detail.Messages {
			m := detail.Messages[i]
			c.byID[m.ID] = &m
			c.order = append(c.order, m.ID)
		}
		c.conversationID = detail.ID
		c.store.Save(c.userID, detail.ID)
	}
	c.loading = false
	c.mu.Unlock()
	c.signal()

	if err != nil {
		return apierr.From(err)
	}
	return nil
}

// StartNewConversation resets the session to empty and forgets the
// persisted active conversation.
func (c *Controller) StartNewConversation() {
	c.mu.Lock()
	c.byID = make(map[string]*model.Message)
	c.order = nil
	c.conversationID = ""
	c.errMsg = ""
	c.retryable = false
	c.mu.Unlock()
	c.signal()

	c.store.Clear(c.userID)
}

// ResumeSession loads the persisted active conversation if one exists.
// Called once at startup; a missing or stale saved id simply leaves the
// session empty (the load error is surfaced via the error field).
func (c *Controller) ResumeSession(ctx context.Context) {
	saved := c.store.Get(c.userID)
	if saved == "" {
		return
	}
	_ = c.LoadConversation(ctx, saved)
}

// ListConversations fetches the conversation picker entries. Read-only;
// does not touch session state.
func (c *Controller) ListConversations(ctx context.Context, limit, offset int) ([]model.ConversationSummary, error) {
	return c.gw.ListConversations(c.requestContext(ctx), limit, offset)
}

// SetOnline records backend reachability from the health probe.
func (c *Controller) SetOnline(online bool) {
	c.mu.Lock()
	changed := c.online != online
	c.online = online
	c.mu.Unlock()
	if changed {
		c.signal()
	}
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	c.errMsg = ""
	c.retryable = false
	c.mu.Unlock()
	c.signal()
}

// requestContext ties a request to both the caller's context and the
// controller's lifetime, so Close cancels everything in flight.
func (c *Controller) requestContext(ctx context.Context) context.Context {
	if ctx == nil {
		return c.ctx
	}
	merged, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-c.ctx.Done():
			cancel()
		case <-merged.Done():
		}
	}()
	return merged
}
