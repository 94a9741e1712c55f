package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"github.com/evycast/inclusiva-sub001/internal/config"
	"github.com/evycast/inclusiva-sub001/internal/db"
	"github.com/evycast/inclusiva-sub001/internal/denylist"
	internalhttp "github.com/evycast/inclusiva-sub001/internal/http"
	"github.com/evycast/inclusiva-sub001/internal/logger"
	"github.com/evycast/inclusiva-sub001/internal/mediastore"
	"github.com/evycast/inclusiva-sub001/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("load config failed", "error", err.Error())
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Open(ctx, cfg.Database.DSN)
	if err != nil {
		log.Fatal("db connection failed", "error", err.Error())
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal("migrations failed", "error", err.Error())
	}

	var deny *denylist.Denylist
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("redis ping failed", "error", err.Error())
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn("redis close error", "error", err.Error())
			}
		}()
		deny = denylist.New(redisClient)
	}

	var media *mediastore.Store
	if cfg.Media.Endpoint != "" {
		minioClient, err := minio.New(cfg.Media.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Media.AccessKey, cfg.Media.SecretKey, ""),
			Secure: cfg.Media.UseSSL,
		})
		if err != nil {
			log.Fatal("minio client failed", "error", err.Error())
		}
		media, err = mediastore.New(ctx, minioClient, cfg.Media.Bucket)
		if err != nil {
			log.Fatal("media store failed", "error", err.Error())
		}
	}

	store := repository.NewStore(pool)
	server := internalhttp.NewServer(cfg, store, deny, media, log)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("inclusiva listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server error", "error", err.Error())
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err.Error())
	}
}
