package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/cache"
	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/handler"
	"github.com/portfolio/internal/router"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, appConfig)
	},
}

func runServer(ctx context.Context, cfg config.AppConfig) error {
	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	gdb, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseTarget())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	if created, err := db.EnsureUser(gdb, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	} else if created {
		logger.Info("bootstrap admin created", "email", strings.ToLower(cfg.AdminEmail))
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	projectionCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer projectionCache.Close()

	api := handler.NewAPI(gdb, handler.Dependencies{
		Settings:   service.NewSettingsService(gdb),
		Assets:     service.NewAssetService(store, cfg.MaxImageWidth, logger),
		Cache:      projectionCache,
		CacheTTL:   cfg.CacheTTL,
		Logger:     logger,
		LoginRate:  cfg.LoginRate,
		LoginBurst: cfg.LoginBurst,
	})

	opts := router.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookies: strings.HasPrefix(cfg.SiteBaseURL, "https://"),
	}
	if local, ok := store.(*storage.LocalStore); ok {
		opts.UploadDir = local.Dir()
		opts.UploadURLPath = local.URLPath()
	}

	engine, err := router.SetupRouter(api, opts)
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr, "database", cfg.DatabaseDriver, "uploads", cfg.UploadBackend)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to run server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newObjectStore(ctx context.Context, cfg config.AppConfig) (service.ObjectStore, error) {
	if cfg.UploadBackend == "s3" {
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			PublicURL:    cfg.S3PublicURL,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		return store, nil
	}
	return storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPath), nil
}

// newCache 优先使用 Redis；连接失败时退回进程内缓存，不阻止启动。
func newCache(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (cache.Cache, error) {
	if cfg.UseRedisCache() {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CachePrefix, cfg.CacheTTL)
		if err == nil {
			return redisCache, nil
		}
		logger.Warn("redis unavailable, using in-memory cache", "error", err)
	}
	return cache.NewMemoryCache(cfg.CacheTTL), nil
}
