package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	RedisURL      string
	SessionID     string
	ContentRating string
	Environment   string
	LogLevel      slog.Level
}

// Load reads configuration from the environment. It fails only when a
// value the game cannot run without is missing.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		SessionID:     os.Getenv("SESSION_ID"),
		ContentRating: getEnv("CONTENT_RATING", "PG13"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.SessionID != "" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("SESSION_ID requires REDIS_URL to be set")
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
