// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Database. An empty DatabaseURL selects zero-config SQLite mode.
	DatabaseURL string
	SQLitePath  string
	DBMaxConns  int

	// Redis. Empty means the per-user timer lock runs in-process.
	RedisURL string

	// RabbitMQ. Empty means events are dispatched in-process only.
	RabbitMQURL string

	// Outbox
	OutboxPollInterval  time.Duration
	OutboxBatchSize     int
	OutboxMaxRetries    int
	OutboxRetentionDays int
}

// Load loads configuration from environment variables. A .env file in
// the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("TASKHIVE_SQLITE_PATH", ""),
		DBMaxConns:  getIntEnv("DB_MAX_CONNS", 10),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:  getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:     getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:    getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays: getIntEnv("OUTBOX_RETENTION_DAYS", 14),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
