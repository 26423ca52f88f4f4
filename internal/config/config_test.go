package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.API.InsecureSkipVerify)
	assert.Equal(t, "http://localhost:5173", cfg.API.WebURL)
	assert.Equal(t, "file", cfg.Session.Backend)
	assert.Equal(t, "default", cfg.Session.Namespace)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Server.JWTTTL)
	assert.Equal(t, DefaultJWTSecret, cfg.Server.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowOrigins)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ELECTROSHOP_API_URL":         "https://shop.example.com/api",
		"ELECTROSHOP_API_TIMEOUT":     "5s",
		"ELECTROSHOP_SESSION_BACKEND": "keyring",
		"ELECTROSHOP_REDIS_DB":        "3",
		"LOG_LEVEL":                   "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "keyring", cfg.Session.Backend)
	assert.Equal(t, 3, cfg.Session.RedisDB)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWith_InvalidDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ELECTROSHOP_API_TIMEOUT": "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process configuration")
}
