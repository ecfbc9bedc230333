// Package config collects the terminal's settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/database"
	"resto_pos_terminal/pkg/utils"
)

// Session store backends
const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
	SessionStoreMemory   = "memory"
)

type Config struct {
	Port       string
	TerminalID string
	GinMode    string
	LogLevel   string
	LogPretty  bool

	BackendURL     string
	BackendTimeout time.Duration
	CurrencyScale  int32

	SessionStore string
	DB           database.Config
	RedisURL     string
	SessionTTL   time.Duration

	NATSURL string

	JWTSecret     string
	JWTTTL        time.Duration
	AdminRoleCode string

	CORSAllowedOrigins []string
	NotificationTTL    time.Duration
	SeedFile           string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       utils.Getenv("PORT", "8080"),
		TerminalID: utils.Getenv("TERMINAL_ID", "pos-1"),
		GinMode:    utils.Getenv("GIN_MODE", "release"),
		LogLevel:   utils.Getenv("LOG_LEVEL", "info"),
		LogPretty:  utils.Getenv("LOG_PRETTY", "false") == "true",

		BackendURL:     utils.Getenv("BACKEND_URL", "http://localhost:3000/api"),
		BackendTimeout: utils.GetenvDuration("BACKEND_TIMEOUT", 10*time.Second),
		CurrencyScale:  int32(utils.GetenvInt("CURRENCY_SCALE", 2)),

		SessionStore: strings.ToLower(utils.Getenv("SESSION_STORE", SessionStoreMemory)),
		DB: database.Config{
			Host:       utils.Getenv("DB_HOST", "localhost"),
			Port:       utils.Getenv("DB_PORT", "5432"),
			User:       utils.Getenv("DB_USER", "postgres"),
			Password:   utils.Getenv("DB_PASSWORD", "postgres"),
			Name:       utils.Getenv("DB_NAME", "resto_pos"),
			SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
		},
		RedisURL:   utils.Getenv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL: utils.GetenvDuration("SESSION_TTL", 0),

		NATSURL: utils.Getenv("NATS_URL", ""),

		JWTSecret:     utils.Getenv("JWT_SECRET", ""),
		JWTTTL:        utils.GetenvDuration("JWT_TTL", utils.DefaultAccessTokenTTL),
		AdminRoleCode: utils.Getenv("ADMIN_ROLE_CODE", "1"),

		CORSAllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		NotificationTTL:    utils.GetenvDuration("NOTIFICATION_TTL", 4*time.Second),
		SeedFile:           utils.Getenv("SEED_FILE", ""),
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that would make the terminal misbehave.
func (c *Config) Validate() error {
	switch c.SessionStore {
	case SessionStorePostgres, SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("SESSION_STORE must be postgres, redis or memory, got %q", c.SessionStore)
	}
	if c.CurrencyScale < 0 || c.CurrencyScale > 4 {
		return fmt.Errorf("CURRENCY_SCALE must be between 0 and 4, got %d", c.CurrencyScale)
	}
	if utils.IsEmpty(c.BackendURL) {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.GinMode == gin.ReleaseMode && utils.IsEmpty(c.JWTSecret) {
		return fmt.Errorf("JWT_SECRET is required when GIN_MODE is %s", gin.ReleaseMode)
	}
	return nil
}
