// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	TelegramBotToken  string
	OpenAIAPIKey      string // empty disables the model-backed assistant
	OpenAIModel       string
	DBPath            string
	HTTPAddr          string // empty disables the REST binding
	LogLevel          slog.Level
	SessionTTL        time.Duration
	MaxTotalResponses int
	MaxStageAttempts  int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		DBPath:            getEnv("DB_PATH", filepath.Join("data", "cases.db")),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		SessionTTL:        getEnvDuration("SESSION_TTL", time.Hour),
		MaxTotalResponses: getEnvInt("MAX_TOTAL_RESPONSES", 10),
		MaxStageAttempts:  getEnvInt("MAX_STAGE_ATTEMPTS", 2),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.MaxTotalResponses <= 0 {
		return fmt.Errorf("MAX_TOTAL_RESPONSES must be > 0")
	}
	if c.MaxStageAttempts <= 0 {
		return fmt.Errorf("MAX_STAGE_ATTEMPTS must be > 0")
	}
	return nil
}

// AssistantEnabled reports whether the model-backed assistant is configured.
func (c *Config) AssistantEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
