// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for termtalk.
//
// Configuration lives in a single TOML file with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.termtalk/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/termtalk/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete termtalk configuration.
type Config struct {
	Version string `toml:"version"`

	// Chat client configuration
	Chat ChatConfig `toml:"chat"`

	// Server configuration
	Server ServerConfig `toml:"server"`

	// Upstream model API configuration
	Upstream UpstreamConfig `toml:"upstream"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// ChatConfig configures the TUI client's connection to the chat server.
type ChatConfig struct {
	// ServerURL is the base URL of the chat server.
	ServerURL string `toml:"server_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// Greeting overrides the bot greeting that seeds the transcript.
	Greeting string `toml:"greeting"`
}

// ServerConfig configures the chat server.
type ServerConfig struct {
	// Port is the TCP port the server listens on.
	Port int `toml:"port"`
	// RateLimitPerMin is the per-client request budget for /chat.
	RateLimitPerMin int `toml:"rate_limit_per_min"`
	// MaxHistory is the number of messages kept per session for upstream
	// context.
	MaxHistory int `toml:"max_history"`
}

// UpstreamConfig configures the model API the server falls back to when
// the math guardrail cannot answer.
type UpstreamConfig struct {
	// APIKey authenticates against the upstream API. Empty key runs the
	// server in local-only mode.
	APIKey string `toml:"api_key"`
	// BaseURL is the upstream API base URL.
	BaseURL string `toml:"base_url"`
	// Model is the model identifier sent with each request.
	Model string `toml:"model"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark" or "light".
	Theme string `toml:"theme"`
	// CompactMode uses a more compact transcript layout.
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Chat: ChatConfig{
			ServerURL:   "http://127.0.0.1:5050",
			TimeoutSecs: 30,
			Greeting:    "",
		},

		Server: ServerConfig{
			Port:            5050,
			RateLimitPerMin: 60,
			MaxHistory:      10,
		},

		Upstream: UpstreamConfig{
			APIKey:  "",
			BaseURL: "https://api.cohere.com/v2",
			Model:   "command-a-03-2025",
		},

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the termtalk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".termtalk"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems; warn and continue.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Used by tests and the --config flag.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# termtalk configuration file\n")
	buf.WriteString("# Generated by termtalk - edit with care\n")
	buf.WriteString("\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
//
// An unrecognized ui.theme is deliberately NOT an error: the theme falls
// back to dark in SetDefaults so a hand-edited config never blocks
// startup over a cosmetic setting.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Chat.ServerURL != "" {
		if _, err := url.Parse(c.Chat.ServerURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "chat.server_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}

	if c.Chat.TimeoutSecs < 1 || c.Chat.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "chat.timeout_secs",
			Message: fmt.Sprintf("must be 1-300, got %d", c.Chat.TimeoutSecs),
		})
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("must be 1-65535, got %d", c.Server.Port),
		})
	}

	if c.Server.RateLimitPerMin < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit_per_min",
			Message: fmt.Sprintf("must be positive, got %d", c.Server.RateLimitPerMin),
		})
	}

	if c.Server.MaxHistory < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.max_history",
			Message: "must be non-negative",
		})
	}

	if c.Upstream.BaseURL != "" {
		if _, err := url.Parse(c.Upstream.BaseURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "upstream.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value
// configuration fields, and normalizes the theme.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Chat.ServerURL == "" {
		c.Chat.ServerURL = defaults.Chat.ServerURL
	}
	if c.Chat.TimeoutSecs == 0 {
		c.Chat.TimeoutSecs = defaults.Chat.TimeoutSecs
	}

	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.RateLimitPerMin == 0 {
		c.Server.RateLimitPerMin = defaults.Server.RateLimitPerMin
	}
	if c.Server.MaxHistory == 0 {
		c.Server.MaxHistory = defaults.Server.MaxHistory
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = defaults.Upstream.BaseURL
	}
	if c.Upstream.Model == "" {
		c.Upstream.Model = defaults.Upstream.Model
	}

	// An unknown stored theme silently falls back to dark.
	c.UI.Theme = NormalizeTheme(c.UI.Theme)
}

// NormalizeTheme maps a stored theme value to a supported one. Anything
// other than "light" is treated as "dark".
func NormalizeTheme(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "light":
		return "light"
	default:
		return "dark"
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TERMTALK_SERVER_URL: overrides chat.server_url
//   - TERMTALK_THEME: overrides ui.theme
//   - TERMTALK_PORT: overrides server.port
//   - TERMTALK_UPSTREAM_KEY: overrides upstream.api_key
//   - TERMTALK_UPSTREAM_URL: overrides upstream.base_url
//   - TERMTALK_MODEL: overrides upstream.model
func (c *Config) ApplyEnvOverrides() {
	if serverURL := os.Getenv("TERMTALK_SERVER_URL"); serverURL != "" {
		c.Chat.ServerURL = serverURL
	}

	if theme := os.Getenv("TERMTALK_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if port := os.Getenv("TERMTALK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if key := os.Getenv("TERMTALK_UPSTREAM_KEY"); key != "" {
		c.Upstream.APIKey = key
	}

	if baseURL := os.Getenv("TERMTALK_UPSTREAM_URL"); baseURL != "" {
		c.Upstream.BaseURL = baseURL
	}

	if model := os.Getenv("TERMTALK_MODEL"); model != "" {
		c.Upstream.Model = model
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		if globalConfig != nil {
			// SetGlobal ran before the first load; keep it.
			return
		}
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
