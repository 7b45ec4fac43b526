package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GHOST_API_URL", "GHOST_CONTENT_API_KEY", "GHOST_ADMIN_API_KEY", "DATABASE_PATH", "DATA_DIR",
		"UNITS_FILE", "LOG_LEVEL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID", "PORT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "data/recipe-shopper.db", cfg.DatabasePath)
		assert.Equal(t, "data", cfg.DataDir)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "8080", cfg.Port)
		assert.Empty(t, cfg.TelegramAllowedUserIDs)
	})

	t.Run("Success", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GHOST_API_URL", "http://ghost.test/")
		t.Setenv("GHOST_CONTENT_API_KEY", "ghost_key")
		t.Setenv("DATABASE_PATH", "/tmp/x.db")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12, 34 ,")
		t.Setenv("ADMIN_TELEGRAM_ID", "12")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://ghost.test", cfg.GhostURL)
		assert.Equal(t, "ghost_key", cfg.GhostContentKey)
		assert.Equal(t, "ghost_key", cfg.GhostAdminKey, "admin key falls back to the content key")
		assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
		assert.Equal(t, []int64{12, 34}, cfg.TelegramAllowedUserIDs)
		assert.Equal(t, int64(12), cfg.AdminTelegramID)
		assert.NoError(t, cfg.RequireGhost())
	})

	t.Run("InvalidAllowedIDs", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		_, err := NewFromEnv()
		require.Error(t, err)
	})

	t.Run("InvalidAdminID", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ADMIN_TELEGRAM_ID", "me")

		_, err := NewFromEnv()
		require.Error(t, err)
	})
}

func TestRequireGhost(t *testing.T) {
	cfg := &Config{GhostContentKey: "k"}
	err := cfg.RequireGhost()
	require.Error(t, err)
	assert.Equal(t, "GHOST_API_URL environment variable not set", err.Error())

	cfg = &Config{GhostURL: "http://ghost.test"}
	err = cfg.RequireGhost()
	require.Error(t, err)
	assert.Equal(t, "GHOST_CONTENT_API_KEY environment variable not set", err.Error())
}

func TestRequireTelegram(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireTelegram()
	require.Error(t, err)
	assert.Equal(t, "TELEGRAM_BOT_TOKEN environment variable not set", err.Error())

	cfg.TelegramBotToken = "token"
	err = cfg.RequireTelegram()
	require.Error(t, err)
	assert.Equal(t, "TELEGRAM_WEBHOOK_URL environment variable not set", err.Error())
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GHOST_API_URL=http://from-file.test\nLOG_LEVEL=debug\n"), 0644))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://from-file.test", cfg.GhostURL)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over the file")
	os.Unsetenv("GHOST_API_URL")
}
