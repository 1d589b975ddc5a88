// Package redis owns the gateway's only durable state: the per-session
// credential cache. Everything else the gateway serves is derived per
// request from this cache and the upstream backend.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connectivity check at startup. The gateway refuses
// to start without its session store; better to fail fast than to serve
// requests that can only 503.
const pingTimeout = 5 * time.Second

// Config captures the settings for the session-store connection.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect initialises the session-store client and verifies connectivity
// with a bounded ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session store ping: %w", err)
	}

	return client, nil
}
