// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat conversations and
// messages exchanged with the TaskPilot backend.
//
// The wire shapes mirror the backend API: messages carry RFC 3339
// timestamps and optional task-linkage metadata for assistant replies that
// performed a task command. Client-held messages additionally carry a
// delivery status (pending, sent, failed) that never appears on the wire.
package model
