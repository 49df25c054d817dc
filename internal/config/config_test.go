// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.UI.Theme != "dark" {
		t.Errorf("default theme = %q, want %q", cfg.UI.Theme, "dark")
	}
	if cfg.Chat.ServerURL != "http://127.0.0.1:5050" {
		t.Errorf("default server URL = %q", cfg.Chat.ServerURL)
	}
	if cfg.Server.Port != 5050 {
		t.Errorf("default port = %d, want 5050", cfg.Server.Port)
	}
	if cfg.Server.MaxHistory != 10 {
		t.Errorf("default max history = %d, want 10", cfg.Server.MaxHistory)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestNormalizeTheme(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"LIGHT", "light"},
		{" light ", "light"},
		{"", "dark"},
		{"solarized", "dark"},
		{"auto", "dark"},
	}

	for _, tt := range tests {
		if got := NormalizeTheme(tt.input); got != tt.want {
			t.Errorf("NormalizeTheme(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSetDefaultsNormalizesBadTheme(t *testing.T) {
	cfg := &Config{}
	cfg.UI.Theme = "hotdog-stand"
	cfg.SetDefaults()

	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want fallback to dark", cfg.UI.Theme)
	}
	// Bad theme must never be a validation error.
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after theme fallback = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = -1 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"timeout zero", func(c *Config) { c.Chat.TimeoutSecs = 0 }, true},
		{"timeout huge", func(c *Config) { c.Chat.TimeoutSecs = 9999 }, true},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitPerMin = -5 }, true},
		{"negative history", func(c *Config) { c.Server.MaxHistory = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.UI.Theme = "light"
	cfg.Server.Port = 6060

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("loaded theme = %q, want %q", loaded.UI.Theme, "light")
	}
	if loaded.Server.Port != 6060 {
		t.Errorf("loaded port = %d, want 6060", loaded.Server.Port)
	}
}

func TestLoadFromPathFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	// A sparse file only setting the theme.
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want %q", cfg.UI.Theme, "light")
	}
	if cfg.Server.Port != 5050 {
		t.Errorf("port = %d, want default 5050", cfg.Server.Port)
	}
	if cfg.Chat.TimeoutSecs != 30 {
		t.Errorf("timeout = %d, want default 30", cfg.Chat.TimeoutSecs)
	}
}

func TestLoadFromPathInvalidThemeFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"chartreuse\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v, want silent fallback", err)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want %q", cfg.UI.Theme, "dark")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("TERMTALK_SERVER_URL", "http://example.test:9999")
	t.Setenv("TERMTALK_THEME", "light")
	t.Setenv("TERMTALK_PORT", "7070")
	t.Setenv("TERMTALK_MODEL", "command-r")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Chat.ServerURL != "http://example.test:9999" {
		t.Errorf("server URL = %q", cfg.Chat.ServerURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want %q", cfg.UI.Theme, "light")
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Upstream.Model != "command-r" {
		t.Errorf("model = %q, want %q", cfg.Upstream.Model, "command-r")
	}
}

func TestGlobalSetAndReset(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	cfg := Default()
	cfg.UI.Theme = "light"
	SetGlobal(cfg)

	if got := Global().UI.Theme; got != "light" {
		t.Errorf("Global().UI.Theme = %q, want %q", got, "light")
	}
}
