// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package events provides a small typed publish/subscribe bus for
// cross-component notifications (login, logout, session invalidation).
//
// The bus is an explicit collaborator passed into constructors, not an
// ambient singleton. Handlers run synchronously on the publishing
// goroutine; they must be quick and must not publish re-entrantly.
package events

import "sync"

// Event identifies a notification kind.
type Event int

const (
	// UserLoggedIn fires after a bearer token is stored.
	UserLoggedIn Event = iota

	// UserLoggedOut fires when the user logs out or the backend rejects
	// the session token (HTTP 401).
	UserLoggedOut
)

// Handler receives an event notification.
type Handler func(Event)

// Bus dispatches events to subscribed handlers.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[Event]map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Event]map[int]Handler)}
}

// Subscribe registers a handler for an event and returns an unsubscribe
// function.
func (b *Bus) Subscribe(ev Event, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[ev] == nil {
		b.handlers[ev] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[ev][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[ev], id)
	}
}

// Publish delivers ev to all current subscribers.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	hs := make([]Handler, 0, len(b.handlers[ev]))
	for _, h := range b.handlers[ev] {
		hs = append(hs, h)
	}
	b.mu.Unlock()

	// Handlers run outside the lock so they can subscribe/unsubscribe.
	for _, h := range hs {
		h(ev)
	}
}
