package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aegis-sentinel/backend/internal/api"
	"github.com/aegis-sentinel/backend/internal/infrastructure/config"
	mongodb "github.com/aegis-sentinel/backend/internal/infrastructure/db/mongo"
	redisdb "github.com/aegis-sentinel/backend/internal/infrastructure/db/redis"
	"github.com/aegis-sentinel/backend/internal/infrastructure/realtime"
	"github.com/aegis-sentinel/backend/internal/infrastructure/storage"
	"github.com/aegis-sentinel/backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo is the system of record: refuse to start without it.
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("user indexes not created")
	}
	if err := mongodb.NewIncidentRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("incident indexes not created")
	}

	// The Redis relay is optional: without it (or when the connection fails)
	// realtime fan-out stays instance-local.
	var hub *realtime.Hub
	rdb, relayErr := connectRelay(ctx, cfg)
	if relayErr != nil {
		log.Warn().Err(relayErr).Msg("redis relay disabled")
	}
	if rdb != nil {
		defer rdb.Close()
		relay := redisdb.NewRelay(rdb, logger.Component("relay"))
		hub = realtime.NewHub(relay, logger.Component("hub"))
		go relay.Listen(ctx, hub.DeliverLocal)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis relay enabled")
	} else {
		hub = realtime.NewHub(nil, logger.Component("hub"))
	}
	go hub.Run(ctx)

	uploads, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("upload dir unavailable")
	}

	e := api.NewRouter(db, rdb, hub, uploads, cfg.JWTSecret, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

// connectRelay returns (nil, nil) when no relay address is configured, and
// (nil, err) when one is configured but unreachable.
func connectRelay(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	return redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}
