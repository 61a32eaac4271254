package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/handler"
	"skillswap/internal/logx"
	"skillswap/internal/queue"
	"skillswap/internal/redis"
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/internal/worker"
)

// Run wires the full application and serves HTTP until an interrupt signal
// arrives, then shuts down the server and the worker pool gracefully.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logx.Init(cfg.IsDevelopment())
	logx.Info("configuration loaded", "environment", cfg.Environment, "port", cfg.ServerPort)

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Redis-backed infrastructure
	respCache := cache.NewResponseCache(redisClient.Client)
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// Services
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo, respCache, publisher)
	ratingService := service.NewRatingService(userRepo)
	swapService := service.NewSwapService(swapRepo, userRepo, ratingService, publisher)
	adminService := service.NewAdminService(userRepo, swapRepo, respCache, publisher)

	// Photo storage is optional: without S3 credentials the upload endpoint
	// responds 503 and everything else works.
	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		logx.Warn("object storage not configured, photo uploads disabled", "reason", err.Error())
		mediaService = nil
	}

	// Cache invalidation workers
	manager := worker.NewManager(consumer, worker.NewHandler(respCache), worker.ManagerConfig{
		WorkerCount: cfg.StatsWorkerCount,
	})
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	router := NewRouter(RouterConfig{
		UserHandler:    handler.NewUserHandler(userService, authService, mediaService),
		SwapHandler:    handler.NewSwapHandler(swapService),
		AdminHandler:   handler.NewAdminHandler(adminService),
		UserGetter:     userService,
		JWTSecret:      cfg.JWTSecret,
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			logx.Fatal(err, "server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	manager.Stop()

	logx.Info("server stopped")
	return nil
}
