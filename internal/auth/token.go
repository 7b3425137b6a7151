// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth manages the bearer token used to authenticate against
// the TaskPilot backend.
//
// The token lives in a file under the state directory so it survives
// restarts. The TASKPILOT_AUTH_TOKEN environment variable seeds the
// store on first load and always wins over the file copy, which keeps
// scripted and CI usage simple.
package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/taskpilot-tui/internal/config"
	"github.com/jeranaias/taskpilot-tui/internal/util"
)

// tokenFileName is the file under the state directory holding the token.
const tokenFileName = "token"

// ErrNoToken indicates no bearer token is configured.
var ErrNoToken = errors.New("no auth token configured")

// TokenStore holds the bearer token for backend requests.
//
// All methods are safe for concurrent use.
type TokenStore struct {
	mu    sync.RWMutex
	path  string
	token string
}

// NewTokenStore loads the token for the given state directory.
//
// Resolution order: TASKPILOT_AUTH_TOKEN environment variable, then the
// token file. An absent token is not an error; Token reports ErrNoToken
// until one is set.
func NewTokenStore(stateDir string) *TokenStore {
	s := &TokenStore{path: filepath.Join(stateDir, tokenFileName)}

	if env := strings.TrimSpace(os.Getenv(config.EnvAuthToken)); env != "" {
		s.token = env
		return s
	}
	if data, err := os.ReadFile(s.path); err == nil {
		s.token = strings.TrimSpace(string(data))
	}
	return s
}

// Token returns the current bearer token, or ErrNoToken if none is set.
func (s *TokenStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// HasToken reports whether a bearer token is available.
func (s *TokenStore) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Set stores a new token in memory and persists it to disk. Tokens are
// written 0600 since they grant account access.
func (s *TokenStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := util.AtomicWriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Clear removes the token from memory and disk. Called when the backend
// rejects the session (HTTP 401) or the user logs out.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
