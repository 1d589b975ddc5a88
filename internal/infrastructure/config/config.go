package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
}

type SessionConfig struct {
	// CookieSecret signs the session cookie JWT. Required outside development.
	CookieSecret string        `env:"SESSION_COOKIE_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL, default=24h"`
}

type UpstreamConfig struct {
	// BaseURL of the marketplace REST backend.
	BaseURL string        `env:"UPSTREAM_BASE_URL, default=http://localhost:8000"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,  default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Validate rejects configurations the gateway cannot run with.
func (c *Config) Validate() error {
	if c.Session.CookieSecret == "" {
		if c.Env != "development" {
			return fmt.Errorf("config: SESSION_COOKIE_SECRET is required in %s", c.Env)
		}
		c.Session.CookieSecret = "development-only-secret"
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("config: UPSTREAM_BASE_URL is required")
	}
	return nil
}
