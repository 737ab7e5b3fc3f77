// Package config loads the process configuration from the environment,
// once at startup. The result is treated as immutable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AuthModeHMAC   = "hmac"
	AuthModeGoogle = "google"
)

type Config struct {
	ServerAddr  string
	DatabaseURL string

	AuthMode       string
	JWTSecret      string
	GoogleClientID string
	AdminEmails    []string

	AllowedOrigins []string
	StoreTimeout   time.Duration

	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads the configuration from environment variables and validates
// that the selected auth mode has what it needs.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:         getenv("SERVER_ADDR", "0.0.0.0:8080"),
		AuthMode:           getenv("AUTH_MODE", AuthModeHMAC),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		AdminEmails:        splitList(os.Getenv("ADMIN_EMAILS")),
		AllowedOrigins:     splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerMinute: 120,
		RateLimitBurst:     60,
		StoreTimeout:       5 * time.Second,
	}

	databaseURL, err := LoadDatabaseURL()
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = databaseURL

	switch cfg.AuthMode {
	case AuthModeHMAC:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when AUTH_MODE=%s", AuthModeHMAC)
		}
	case AuthModeGoogle:
		if cfg.GoogleClientID == "" {
			return nil, fmt.Errorf("GOOGLE_CLIENT_ID is required when AUTH_MODE=%s", AuthModeGoogle)
		}
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}

	if raw := os.Getenv("STORE_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
		}
		cfg.StoreTimeout = timeout
	}
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
		}
		cfg.RateLimitPerMinute = n
	}
	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = n
	}

	return cfg, nil
}

// LoadDatabaseURL resolves only the database URL, for tools that need a
// connection but none of the service configuration.
func LoadDatabaseURL() (string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	if url := postgresURLFromParts(); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("DATABASE_URL (or POSTGRES_* parts) is required")
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func postgresURLFromParts() string {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	port := getenv("POSTGRES_PORT", "5432")
	dbName := os.Getenv("POSTGRES_DB")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}
