package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"owltrack/internal/config"
	"owltrack/internal/database"
	"owltrack/internal/middleware"
	"owltrack/internal/pkg/logger"
	"owltrack/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.AppEnv, cfg.Log)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database.URL, logger.New("database"))
	if err != nil {
		log.Error("database connect failed", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(db); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		log.Error("blob store init failed", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	limiter, closeLimiter := newLimiter(ctx, cfg.Redis, log)
	defer closeLimiter()

	r := newRouter(cfg, routerDeps{
		db:      db,
		blobs:   blobs,
		limiter: limiter,
		log:     log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", cfg.HTTP.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func newBlobStore(ctx context.Context, cfg config.Storage) (storage.BlobStore, error) {
	if cfg.Driver == config.StorageS3 {
		return storage.NewS3Store(ctx, cfg.S3)
	}
	return storage.NewLocalStore(cfg.LocalDir)
}

// newLimiter prefers redis so limits hold across replicas.
func newLimiter(ctx context.Context, cfg config.Redis, log *slog.Logger) (middleware.Limiter, func()) {
	if cfg.Addr == "" {
		return middleware.NewRateLimiter(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, rate limiting fails open until it recovers", "addr", cfg.Addr, "error", err)
	}
	return middleware.NewRedisLimiter(client), func() { _ = client.Close() }
}
