// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the TaskPilot client.
//
// Configuration sources, in order of precedence:
//   - Environment variables (TASKPILOT_*)
//   - ~/.taskpilot/config.toml
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults.
const (
	// DefaultBackendURL matches a local TaskPilot backend.
	DefaultBackendURL = "http://localhost:8000"

	// DefaultRequestTimeoutSecs bounds every backend request.
	DefaultRequestTimeoutSecs = 30

	// DefaultConversationPageSize is the page size for the conversation list.
	DefaultConversationPageSize = 50

	// DefaultHealthIntervalSecs is how often the liveness probe runs.
	DefaultHealthIntervalSecs = 30
)

// Environment variable names.
const (
	EnvBackendURL = "TASKPILOT_BACKEND_URL"
	EnvAuthToken  = "TASKPILOT_AUTH_TOKEN"
	EnvUserID     = "TASKPILOT_USER_ID"
	EnvStateDir   = "TASKPILOT_STATE_DIR"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete TaskPilot client configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	User    UserConfig    `toml:"user"`
	UI      UIConfig      `toml:"ui"`

	// StateDir holds the token file, session database and logs.
	// Default: ~/.taskpilot
	StateDir string `toml:"state_dir"`
}

// BackendConfig describes how to reach the TaskPilot backend.
type BackendConfig struct {
	// BaseURL is the backend base URL (http or https).
	BaseURL string `toml:"base_url"`
	// RequestTimeoutSecs bounds each request. Default: 30.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`
	// ConversationPageSize is the default page size when listing
	// conversations. Default: 50.
	ConversationPageSize int `toml:"conversation_page_size"`
	// HealthIntervalSecs is the liveness probe interval. Default: 30.
	HealthIntervalSecs int `toml:"health_interval_secs"`
}

// UserConfig identifies the local user.
type UserConfig struct {
	// ID keys the persisted active-conversation mapping. When empty it is
	// derived from the system username.
	ID string `toml:"id"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// MarkdownEnabled renders assistant replies through the markdown
	// renderer. Default: true.
	MarkdownEnabled bool `toml:"markdown_enabled"`
	// CompactMode collapses message spacing for small terminals.
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:              DefaultBackendURL,
			RequestTimeoutSecs:   DefaultRequestTimeoutSecs,
			ConversationPageSize: DefaultConversationPageSize,
			HealthIntervalSecs:   DefaultHealthIntervalSecs,
		},
		UI: UIConfig{
			MarkdownEnabled: true,
		},
	}
}

// Load reads the configuration file from the default location, applies
// environment overrides, fills defaults and validates. A missing config
// file is not an error; defaults are used.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns ~/.taskpilot/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".taskpilot", "config.toml"), nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		c.User.ID = v
	}
	if v := os.Getenv(EnvStateDir); v != "" {
		c.StateDir = v
	}
}

// fillDefaults replaces zero values with defaults.
func (c *Config) fillDefaults() {
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = DefaultBackendURL
	}
	c.Backend.BaseURL = strings.TrimSuffix(c.Backend.BaseURL, "/")
	if c.Backend.RequestTimeoutSecs <= 0 {
		c.Backend.RequestTimeoutSecs = DefaultRequestTimeoutSecs
	}
	if c.Backend.ConversationPageSize <= 0 {
		c.Backend.ConversationPageSize = DefaultConversationPageSize
	}
	if c.Backend.HealthIntervalSecs <= 0 {
		c.Backend.HealthIntervalSecs = DefaultHealthIntervalSecs
	}
	if c.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.StateDir = filepath.Join(home, ".taskpilot")
		}
	}
	if c.User.ID == "" {
		c.User.ID = systemUserID()
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base_url %q: %w", c.Backend.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend base_url %q: scheme must be http or https", c.Backend.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend base_url %q: missing host", c.Backend.BaseURL)
	}
	if c.User.ID == "" {
		return errors.New("user id could not be determined; set user.id or " + EnvUserID)
	}
	return nil
}

// RequestTimeout returns the request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.RequestTimeoutSecs) * time.Second
}

// HealthInterval returns the liveness probe interval as a duration.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.Backend.HealthIntervalSecs) * time.Second
}

// systemUserID derives a user identifier from the environment.
func systemUserID() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
