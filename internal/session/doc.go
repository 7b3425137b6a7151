// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the chat session state machine.
//
// The Controller holds the transcript, loading flag, error banner,
// active conversation id, and connectivity flag for one authenticated
// user, and mutates that state only through its exported operations.
// Sends are optimistic: the user's message appears immediately as
// pending and is reconciled to sent or failed when the backend answers.
//
// # Key Types
//
//   - Controller: the state machine and its operations
//   - State: immutable snapshot handed to renderers
//
// # Usage
//
// Create a controller for the authenticated user:
//
//	ctl := session.NewController(gw, store, bus, userID)
//	defer ctl.Close()
//
// Send a message and render the result:
//
//	err := ctl.SendMessage(ctx, "add milk to my shopping list")
//	state := ctl.Snapshot()
//
// Exactly one message may be pending at a time; overlapping sends are
// rejected with ErrSendInProgress.
package session
