package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FANTASY_API_URL", "")
	t.Setenv("FANTASY_THEME", "")
	t.Setenv("FANTASY_DEBUG", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("expected local base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.GetRedirectDelay() != 2*time.Second {
		t.Errorf("expected 2s redirect delay, got %s", cfg.GetRedirectDelay())
	}
	if cfg.GetAPITimeout() != 0 {
		t.Errorf("expected no API timeout, got %s", cfg.GetAPITimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://fantasy.example.com"
	cfg.API.Timeout = "15s"
	cfg.Form.RedirectDelay = "500ms"
	cfg.UI.Theme = "dark"
	cfg.Logging.Categories = map[string]bool{"api": false}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 15*time.Second, loaded.GetAPITimeout())
	assert.Equal(t, 500*time.Millisecond, loaded.GetRedirectDelay())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  theme: light\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"relative url", func(c *Config) { c.API.BaseURL = "/api" }, "absolute URL"},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://host" }, "http or https"},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }, "api.timeout"},
		{"negative delay", func(c *Config) { c.Form.RedirectDelay = "-1s" }, "form.redirect_delay"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Run("FANTASY_API_URL replaces base url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FANTASY_API_URL", "https://staging.example.com")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)
	})

	t.Run("FANTASY_DEBUG enables debug logging", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FANTASY_DEBUG", "1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Logging.DebugMode)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("garbage FANTASY_DEBUG is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FANTASY_DEBUG", "maybe")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Logging.DebugMode)
	})

	t.Run("FANTASY_THEME", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FANTASY_THEME", "dark")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "dark", cfg.UI.Theme)
	})
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	assert.True(t, c.IsCategoryEnabled("api"))

	c.Categories = map[string]bool{"api": false, "form": true}
	assert.False(t, c.IsCategoryEnabled("api"))
	assert.True(t, c.IsCategoryEnabled("form"))
	assert.True(t, c.IsCategoryEnabled("boot"))
}
