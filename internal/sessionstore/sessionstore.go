// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sessionstore persists the per-user active conversation across
// restarts.
//
// Persistence here is strictly best-effort: the backend owns conversation
// history, so losing this state only means the next launch starts a fresh
// conversation. A store that fails to open degrades to a no-op instead of
// blocking the chat, and write failures are logged but never surfaced to
// callers.
package sessionstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// dbFileName is the store's file under the state directory.
const dbFileName = "session.db"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	user_id                TEXT PRIMARY KEY,
	active_conversation_id TEXT NOT NULL,
	updated_at             TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Store maps user ids to their active conversation id.
//
// All methods are safe for concurrent use and never return errors: a
// degraded store answers Get with "" and ignores writes.
type Store struct {
	mu sync.Mutex
	db *sql.DB // nil when degraded
}

// Open creates or opens the session store under stateDir.
//
// Open never fails: any problem (unwritable directory, corrupt database)
// yields a degraded no-op store, matching a browser with sessionStorage
// disabled.
func Open(stateDir string) *Store {
	db, err := open(stateDir)
	if err != nil {
		log.Printf("session store unavailable, continuing without persistence: %v", err)
		return &Store{}
	}
	return &Store{db: db}
}

func open(stateDir string) (*sql.DB, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(stateDir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Available reports whether persistence is working.
func (s *Store) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db != nil
}

// Save records the active conversation for a user. Best-effort.
func (s *Store) Save(userID, conversationID string) {
	if userID == "" || conversationID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (user_id, active_conversation_id, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET
			active_conversation_id = excluded.active_conversation_id,
			updated_at = excluded.updated_at`,
		userID, conversationID)
	if err != nil {
		log.Printf("failed to save session for user %s: %v", userID, err)
	}
}

// Get returns the saved active conversation for a user, or "" when none
// is recorded or the store is degraded.
func (s *Store) Get(userID string) string {
	if userID == "" {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ""
	}

	var conversationID string
	err := s.db.QueryRow(
		`SELECT active_conversation_id FROM sessions WHERE user_id = ?`,
		userID).Scan(&conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	if err != nil {
		log.Printf("failed to read session for user %s: %v", userID, err)
		return ""
	}
	return conversationID
}

// Clear removes the saved conversation for a user. Best-effort.
func (s *Store) Clear(userID string) {
	if userID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return
	}

	if _, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		log.Printf("failed to clear session for user %s: %v", userID, err)
	}
}

// Close releases the underlying database. Safe on a degraded store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
