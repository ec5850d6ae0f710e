package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "DATABASE_URL", "TELEGRAM_BOT_TOKEN",
		"TELEGRAM_BOT_USERNAME", "TOKEN_TTL_HOURS", "TIMEZONE", "REMINDER_SCHEDULE", "REDIS_URL", "TELEGRAM_POLLING",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "taskbuddy.db", cfg.DatabaseURL)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "09:00", cfg.ReminderSchedule)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.TelegramPolling)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TELEGRAM_BOT_USERNAME", "@TaskBuddyBot")
	t.Setenv("TOKEN_TTL_HOURS", "2")
	t.Setenv("TIMEZONE", "Europe/Moscow")
	t.Setenv("TELEGRAM_POLLING", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "TaskBuddyBot", cfg.TelegramBotUsername)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.True(t, cfg.TelegramPolling)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("token ttl", func(t *testing.T) {
		t.Setenv("TIMEZONE", "")
		t.Setenv("TOKEN_TTL_HOURS", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}
