package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config carries every runtime setting the server needs. It is constructed
// once at startup, validated, and passed explicitly; there is no process-wide
// mutable configuration state.
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	Environment string `validate:"oneof=development production test"`

	// DatabaseURL selects Postgres when set; SQLitePath is the fallback for
	// local development and tests.
	DatabaseURL string
	SQLitePath  string

	JWTSecret string `validate:"required,min=32"`

	// SIWE message fields.
	Domain  string `validate:"required,hostname"`
	URI     string `validate:"required,uri"`
	ChainID int    `validate:"min=1"`

	CORSOrigins string

	// Fixed-window rate limit applied to the auth and compile endpoints.
	ThrottleWindowSeconds int `validate:"min=1"`
	ThrottleLimit         int `validate:"min=1"`
}

// Load reads configuration from the environment and validates it. Missing
// optional keys fall back to development defaults; missing required keys fail
// startup.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  envInt("PORT", 3001),
		Environment:           envString("APP_ENV", "development"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SQLitePath:            envString("SQLITE_PATH", "pumpjaine.db"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		Domain:                envString("SIWE_DOMAIN", "pumpjaine.fun"),
		URI:                   envString("SIWE_URI", "https://pumpjaine.fun"),
		ChainID:               envInt("CHAIN_ID", 16601),
		CORSOrigins:           envString("CORS_ORIGINS", "*"),
		ThrottleWindowSeconds: envInt("THROTTLE_WINDOW_SECONDS", 60),
		ThrottleLimit:         envInt("THROTTLE_LIMIT", 100),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags and the cross-field database requirement.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.DatabaseURL == "" && c.SQLitePath == "" {
		return fmt.Errorf("invalid configuration: one of DATABASE_URL or SQLITE_PATH is required")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
