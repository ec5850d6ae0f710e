package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the API server.
type Config struct {
	AppEnv              string
	LogLevel            slog.Level
	HTTPAddr            string
	DatabaseURL         string
	TelegramToken       string
	TelegramBotUsername string
	TelegramAPIEndpoint string
	TelegramPolling     bool
	WebhookSecret       string
	TokenTTL            time.Duration
	Location            *time.Location
	ReminderSchedule    string
	ReminderSecret      string
	RedisURL            string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		LogLevel:            parseLogLevel(getEnv("LOG_LEVEL", "INFO")),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", "taskbuddy.db"),
		TelegramToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramBotUsername: strings.TrimPrefix(getEnv("TELEGRAM_BOT_USERNAME", ""), "@"),
		TelegramAPIEndpoint: getEnv("TELEGRAM_API_ENDPOINT", ""),
		TelegramPolling:     getEnvAsBool("TELEGRAM_POLLING", false),
		WebhookSecret:       getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		TokenTTL:            time.Duration(getEnvAsInt64("TOKEN_TTL_HOURS", 720)) * time.Hour,
		ReminderSchedule:    getEnv("REMINDER_SCHEDULE", "09:00"),
		ReminderSecret:      getEnv("REMINDER_SECRET", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
	}

	if cfg.TokenTTL <= 0 {
		return cfg, fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Empty values count as unset.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if raw, ok := os.LookupEnv(key); ok {
		if value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if raw, ok := os.LookupEnv(key); ok {
		if value, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return value
		}
	}
	return fallback
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToUpper(raw) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
