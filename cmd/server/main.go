package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"registration_backend/internal/app/di"
	"registration_backend/internal/app/router"
	"registration_backend/internal/platform/config"
	infraredis "registration_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	cancel()
	switch {
	case errors.Is(err, infraredis.ErrNotConfigured):
		slog.Info("Redis not configured. Running without cache.")
	case err != nil:
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	default:
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	reg := di.NewRegistration(cfg.DB, rdb, cfg.UserListCacheTTL, cfg.BcryptCost)

	// ルータ生成
	r := router.NewRouter(reg.Register, reg.Users, reg.Store, router.Options{
		Logger:      logger,
		CORSEnabled: cfg.CORSEnabled,
	})

	slog.Info("server starting", "addr", cfg.HTTPAddr, "db_driver", cfg.DB.Driver, "cache", rdb != nil)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
