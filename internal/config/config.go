package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB          DatabaseConfig
	Redis       RedisConfig
	Xendit      XenditConfig
	Idempotency IdempotencyConfig
}

// DatabaseConfig contains PostgreSQL connection parameters. The booking store
// is an optional collaborator: an incomplete configuration runs the facade in
// store-less mode where booking updates are skipped.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Configured reports whether enough parameters are present to connect.
func (c DatabaseConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Name != ""
}

// RedisConfig contains Redis connection parameters. When Host is empty the
// dedup store and idempotency ledger fall back to their in-memory
// implementations (single-instance deployments only).
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Configured reports whether Redis should be used.
func (c RedisConfig) Configured() bool {
	return c.Host != ""
}

// XenditConfig contains credentials for the payment provider.
type XenditConfig struct {
	BaseURL       string
	APIKey        string
	CallbackToken string
	DedupTTL      time.Duration
}

// IdempotencyConfig tunes the client-key idempotency ledger.
type IdempotencyConfig struct {
	TTL            time.Duration
	SweepThreshold int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database (booking + audit store)
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis (optional: dedup store + idempotency ledger)
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Payment provider
	cfg.Xendit = XenditConfig{
		BaseURL:       getEnv("XENDIT_BASE_URL", "https://api.xendit.co"),
		APIKey:        getEnv("XENDIT_API_KEY", ""),
		CallbackToken: getEnv("XENDIT_CALLBACK_TOKEN", ""),
	}

	var err error
	if cfg.Xendit.DedupTTL, err = parseDurationEnv("WEBHOOK_DEDUP_TTL", "72h"); err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_DEDUP_TTL: %w", err)
	}
	if cfg.Idempotency.TTL, err = parseDurationEnv("IDEMPOTENCY_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}
	cfg.Idempotency.SweepThreshold = getEnvInt("IDEMPOTENCY_SWEEP_THRESHOLD", 1000)

	// No boot-time check for the callback token: the authenticator fails
	// closed with a configuration error on every delivery until it is set.

	// Validate JWT_SECRET (admin debug surface)
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for admin authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
