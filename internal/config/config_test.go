package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, ProviderSim, cfg.Quotes.Provider)
	assert.Equal(t, 24*time.Hour, cfg.TokenDuration())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
listen: ":9090"
database_url: "postgres://example/app"
jwt_secret: "file-secret"
token_ttl: "1h"
quotes:
  provider: "alphavantage"
  alphavantage_key: "demo"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "postgres://example/app", cfg.DatabaseURL)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenDuration())
	assert.Equal(t, ProviderAlphaVantage, cfg.Quotes.Provider)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
jwt_secret: "file-secret"
database_url: "postgres://file/app"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("DATABASE_URL", "postgres://env/app")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/app", cfg.DatabaseURL)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := Default()
		cfg.JWTSecret = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "jwt_secret"},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, "database_url"},
		{"missing listen", func(c *Config) { c.Listen = "" }, "listen"},
		{"bad ttl", func(c *Config) { c.TokenTTL = "soon" }, "token_ttl"},
		{"unknown provider", func(c *Config) { c.Quotes.Provider = "oracle" }, "quote provider"},
		{"alphavantage without key", func(c *Config) { c.Quotes.Provider = ProviderAlphaVantage }, "alphavantage_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	require.NoError(t, base().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
