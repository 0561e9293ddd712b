// Package config loads application configuration from environment
// variables. All variables use the QUIZ_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Content   ContentConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// ContentConfig points at the persisted content document.
type ContentConfig struct {
	DocumentPath string
}

// DatabaseConfig holds PostgreSQL settings for the relational exporter.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis settings for the rate limiter. An empty URL
// disables rate limiting.
type CacheConfig struct {
	URL string
}

// RateLimitConfig holds the fixed-window request limit per client IP.
type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with QUIZ_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("QUIZ_SERVER_PORT", 3000),
			Host: envStr("QUIZ_SERVER_HOST", "0.0.0.0"),
		},
		Content: ContentConfig{
			DocumentPath: envStr("QUIZ_DOCUMENT_PATH", "./database/database.json"),
		},
		Database: DatabaseConfig{
			URL:      envStr("QUIZ_DATABASE_URL", ""),
			MaxConns: envInt("QUIZ_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("QUIZ_DATABASE_MIN_CONNS", 2),
		},
		Cache: CacheConfig{
			URL: envStr("QUIZ_CACHE_URL", ""),
		},
		RateLimit: RateLimitConfig{
			Window: time.Duration(envInt("QUIZ_RATE_LIMIT_WINDOW_MS", 3600000)) * time.Millisecond,
			Max:    envInt("QUIZ_RATE_LIMIT_MAX", 500),
		},
		Log: LogConfig{
			Level:  envStr("QUIZ_LOG_LEVEL", "info"),
			Format: envStr("QUIZ_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that required configuration is present and coherent.
func (c *Config) Validate() error {
	if c.Content.DocumentPath == "" {
		return fmt.Errorf("QUIZ_DOCUMENT_PATH is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("QUIZ_SERVER_PORT must be a valid port, got %d", c.Server.Port)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("QUIZ_RATE_LIMIT_WINDOW_MS must be positive")
	}
	if c.RateLimit.Max < 1 {
		return fmt.Errorf("QUIZ_RATE_LIMIT_MAX must be at least 1")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
