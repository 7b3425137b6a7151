// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/taskpilot-tui/internal/config"
)

func TestTokenStoreEmpty(t *testing.T) {
	t.Setenv(config.EnvAuthToken, "")

	s := NewTokenStore(t.TempDir())

	assert.False(t, s.HasToken())
	_, err := s.Token()
	assert.True(t, errors.Is(err, ErrNoToken))
}

func TestTokenStoreSetAndReload(t *testing.T) {
	t.Setenv(config.EnvAuthToken, "")
	dir := t.TempDir()

	s := NewTokenStore(dir)
	require.NoError(t, s.Set("tok-abc123"))

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc123", tok)

	// A fresh store picks the token up from disk.
	s2 := NewTokenStore(dir)
	tok2, err := s2.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc123", tok2)
}

func TestTokenStoreFilePermissions(t *testing.T) {
	t.Setenv(config.EnvAuthToken, "")
	dir := t.TempDir()

	s := NewTokenStore(dir)
	require.NoError(t, s.Set("secret"))

	info, err := os.Stat(filepath.Join(dir, tokenFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenStoreEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFileName), []byte("from-file\n"), 0o600))

	t.Setenv(config.EnvAuthToken, "from-env")

	s := NewTokenStore(dir)
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)
}

func TestTokenStoreClear(t *testing.T) {
	t.Setenv(config.EnvAuthToken, "")
	dir := t.TempDir()

	s := NewTokenStore(dir)
	require.NoError(t, s.Set("tok"))
	require.NoError(t, s.Clear())

	assert.False(t, s.HasToken())
	_, err := os.Stat(filepath.Join(dir, tokenFileName))
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}

func TestTokenStoreRejectsEmptyToken(t *testing.T) {
	t.Setenv(config.EnvAuthToken, "")

	s := NewTokenStore(t.TempDir())
	assert.Error(t, s.Set("   "))
}
