package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the CLI and the reference API server
type Config struct {
	API     APIConfig
	Session SessionConfig
	Logging LoggingConfig
	Server  ServerConfig
}

// APIConfig describes how the client reaches the storefront API
type APIConfig struct {
	BaseURL            string        `env:"ELECTROSHOP_API_URL, default=http://localhost:8080/api"`
	Timeout            time.Duration `env:"ELECTROSHOP_API_TIMEOUT, default=30s"`
	InsecureSkipVerify bool          `env:"ELECTROSHOP_API_INSECURE, default=false"`
	WebURL             string        `env:"ELECTROSHOP_WEB_URL, default=http://localhost:5173"`
}

// SessionConfig selects the backend for persisted session state
type SessionConfig struct {
	Backend   string `env:"ELECTROSHOP_SESSION_BACKEND, default=file"` // file, keyring, sqlite, redis, memory
	Path      string `env:"ELECTROSHOP_SESSION_PATH"`                  // file and sqlite backends; empty = ~/.config/electroshop
	Namespace string `env:"ELECTROSHOP_SESSION_NAMESPACE, default=default"`
	RedisAddr string `env:"ELECTROSHOP_REDIS_ADDR, default=localhost:6379"`
	RedisDB   int    `env:"ELECTROSHOP_REDIS_DB, default=0"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL, default=warn"`
	Format string `env:"LOG_FORMAT, default=console"` // json, console
}

// DefaultJWTSecret is the JWT_SECRET used when none is configured. It is
// only fit for local development.
const DefaultJWTSecret = "electroshop-dev-secret"

// ServerConfig configures the reference storefront API
type ServerConfig struct {
	Addr         string        `env:"SERVER_ADDR, default=:8080"`
	DatabaseURL  string        `env:"DATABASE_URL, default=electroshop.sqlite"`
	JWTSecret    string        `env:"JWT_SECRET, default=electroshop-dev-secret"`
	JWTTTL       time.Duration `env:"JWT_TTL, default=24h"`
	AllowOrigins []string      `env:"CORS_ALLOW_ORIGINS, default=http://localhost:5173"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL, default=admin@electroshop.local"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD, default=admin123"`
	SeedUserEmail     string `env:"SEED_USER_EMAIL, default=user@electroshop.local"`
	SeedUserPassword  string `env:"SEED_USER_PASSWORD, default=user123"`
}

// Load loads configuration from .env files and environment variables
func Load(ctx context.Context) (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes configuration from the given lookuper
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	return &cfg, nil
}
