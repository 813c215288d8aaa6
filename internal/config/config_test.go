package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                  3001,
		Environment:           "test",
		SQLitePath:            ":memory:",
		JWTSecret:             "test-secret-test-secret-test-secret-test",
		Domain:                "pumpjaine.fun",
		URI:                   "https://pumpjaine.fun",
		ChainID:               16601,
		CORSOrigins:           "*",
		ThrottleWindowSeconds: 60,
		ThrottleLimit:         100,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = "too-short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.Environment = "staging"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("no database at all", func(t *testing.T) {
		cfg := validConfig()
		cfg.SQLitePath = ""
		cfg.DatabaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres alone is enough", func(t *testing.T) {
		cfg := validConfig()
		cfg.SQLitePath = ""
		cfg.DatabaseURL = "postgres://localhost/pumpjaine"
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-test-secret-test-secret-test")
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("CHAIN_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 16601, cfg.ChainID)
	assert.Equal(t, "pumpjaine.fun", cfg.Domain)
	assert.False(t, cfg.IsProduction())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}
