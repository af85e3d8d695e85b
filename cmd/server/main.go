package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yigitech/x-wrapped/internal/cache"
	"github.com/yigitech/x-wrapped/internal/config"
	"github.com/yigitech/x-wrapped/internal/db"
	"github.com/yigitech/x-wrapped/internal/handlers"
	"github.com/yigitech/x-wrapped/internal/logging"
	_ "github.com/yigitech/x-wrapped/internal/metrics" // Initialize metrics
	"github.com/yigitech/x-wrapped/internal/ratelimit"
	"github.com/yigitech/x-wrapped/internal/server"
	"github.com/yigitech/x-wrapped/internal/services/profileservice"
	"github.com/yigitech/x-wrapped/internal/xapi"
)

func main() {
	// Local development convenience; deployed instances use real env vars.
	_ = godotenv.Load()

	logging.InitLogger()

	slog.Info("starting x-wrapped profile service")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded successfully")

	// Lookup history database is optional. Without it the leaderboard
	// endpoint reports 503 and lookups are simply not recorded.
	conns := db.NewConnections(nil, nil)
	if cfg.Database.URL != "" {
		dbConn, err := db.NewPostgresConnection(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		sqlDB, err := dbConn.DB()
		if err != nil {
			slog.Error("failed to get underlying database connection", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
		conns.DB = dbConn
		slog.Info("database connection established")
	}

	// Cache backend: in-process map by default, Redis when configured.
	var cacheStore cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err := db.NewRedisClient(cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		conns.Redis = redisClient
		cacheStore = cache.NewRedisStore(redisClient, cfg.Cache.FallbackTTL)
		slog.Info("redis cache enabled", "key_prefix", cfg.Redis.KeyPrefix)
	default:
		cacheStore = cache.NewMemoryStore()
		slog.Info("in-memory cache enabled")
	}

	tracker := ratelimit.NewTracker(cfg.RateLimit.Floor)
	upstream := xapi.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.BearerToken)
	profiles := profileservice.New(upstream, cacheStore, tracker, conns, cfg)

	deps := &handlers.Dependencies{
		Config:   cfg,
		Conns:    conns,
		Profiles: profiles,
	}

	srv := server.NewServer(cfg, deps)
	metricsSrv := server.NewMetricsServer(deps)

	go func() {
		slog.Info("metrics server listening", "address", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		slog.Info("server listening", "address", srv.Addr, "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("received shutdown signal, shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown both servers concurrently
	errChan := make(chan error, 2)
	go func() {
		if err := srv.Shutdown(ctx); err != nil {
			errChan <- fmt.Errorf("main server shutdown error: %w", err)
		} else {
			errChan <- nil
		}
	}()
	go func() {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			errChan <- fmt.Errorf("metrics server shutdown error: %w", err)
		} else {
			errChan <- nil
		}
	}()

	for i := 0; i < 2; i++ {
		if err := <-errChan; err != nil {
			slog.Error("server forced to shutdown", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("servers exited successfully")
}
