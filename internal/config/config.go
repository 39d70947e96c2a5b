package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the askbetter server.
type Config struct {
	Server   ServerConfig
	Chat     ChatConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Stats    StatsConfig
}

type ServerConfig struct {
	Port     int
	Env      string
	LogLevel slog.Level
}

type ChatConfig struct {
	ReplyDelay time.Duration
}

// DatabaseConfig is optional; an empty URL keeps rule stats in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsDir   string
}

// RedisConfig is optional; an empty URL disables rate limiting.
type RedisConfig struct {
	URL                string
	RateLimitPerMinute int
}

// StatsConfig holds the bcrypt hash of the bearer token guarding /api/v1/stats.
// An empty hash leaves the endpoint open.
type StatsConfig struct {
	TokenHash string
}

var validLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any value is invalid.
func Load() (*Config, error) {
	level := strings.ToLower(envString("ASKBETTER_LOG_LEVEL", "info"))
	logLevel, ok := validLogLevels[level]
	if !ok {
		return nil, fmt.Errorf("ASKBETTER_LOG_LEVEL must be one of debug, info, warn, error; got %q", level)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     envInt("ASKBETTER_PORT", 8080),
			Env:      envString("ASKBETTER_ENV", "development"),
			LogLevel: logLevel,
		},
		Chat: ChatConfig{
			ReplyDelay: envDuration("ASKBETTER_REPLY_DELAY", 1500*time.Millisecond),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			MigrationsDir:   envString("DATABASE_MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			URL:                os.Getenv("REDIS_URL"),
			RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
		},
		Stats: StatsConfig{
			TokenHash: os.Getenv("STATS_TOKEN_HASH"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("ASKBETTER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Chat.ReplyDelay < 0 {
		return fmt.Errorf("ASKBETTER_REPLY_DELAY must not be negative, got %s", c.Chat.ReplyDelay)
	}

	if c.Database.URL != "" &&
		!strings.HasPrefix(c.Database.URL, "postgres://") && !strings.HasPrefix(c.Database.URL, "postgresql://") {
		return fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://")
	}

	if c.Redis.URL != "" &&
		!strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.Redis.URL)
	}
	if c.Redis.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.Redis.RateLimitPerMinute)
	}

	if c.Stats.TokenHash != "" && !strings.HasPrefix(c.Stats.TokenHash, "$2") {
		return fmt.Errorf("STATS_TOKEN_HASH must be a bcrypt hash")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
