// Command server runs the marketplace session gateway: the service that
// owns browser sessions, enforces role policy on routes, and relays calls
// to the marketplace REST backend with the session's bearer token attached.
//
// @title        Marketplace Session Gateway API
// @version      1.0
// @description  Session, RBAC, and role-aware view gateway for the land/PPA marketplace.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/landinvestpro/marketplace-gateway/internal/api"
	"github.com/landinvestpro/marketplace-gateway/internal/core/service"
	"github.com/landinvestpro/marketplace-gateway/internal/infrastructure/backend"
	"github.com/landinvestpro/marketplace-gateway/internal/infrastructure/config"
	redisdb "github.com/landinvestpro/marketplace-gateway/internal/infrastructure/db/redis"
	"github.com/landinvestpro/marketplace-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	store := redisdb.NewCredentialStore(rdb)

	client := backend.New(backend.Options{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Logger:  log,
	})

	// --- Services ---
	sessions := service.NewSessionManager(store, client, cfg.Session.TTL, log)

	// An upstream 401 on any authenticated call clears that session once.
	client.SetForcedLogoutHook(func(ctx context.Context, sessionID string) {
		if err := sessions.ForceLogout(ctx, sessionID); err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("forced logout failed")
		}
	})

	// --- HTTP ---
	e := api.NewRouter(api.RouterOptions{
		Sessions:     sessions,
		Backend:      client,
		Redis:        rdb,
		CookieSecret: cfg.Session.CookieSecret,
		Logger:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting gateway")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
