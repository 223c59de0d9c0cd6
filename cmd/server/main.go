package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/ai"
	"github.com/studypartner/backend/internal/app"
	"github.com/studypartner/backend/internal/config"
	"github.com/studypartner/backend/internal/httpapi"
	"github.com/studypartner/backend/internal/notifier"
	"github.com/studypartner/backend/internal/repository"
	"github.com/studypartner/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting study partner server",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if version, err := migrator.Version(ctx); err == nil {
		logger.Info("Database migrated", zap.Int64("version", version))
	}
	migrator.Close()

	var limiter *ai.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to ping redis", zap.Error(err))
		}
		defer rdb.Close()
		limiter = ai.NewLimiter(rdb, cfg.AIDailyLimit)
		logger.Info("AI rate limiting enabled", zap.Int64("daily_limit", cfg.AIDailyLimit))
	}

	var telegram service.Notifier
	if cfg.TelegramToken != "" {
		tg, err := notifier.NewTelegram(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		telegram = tg
		logger.Info("Telegram notification mirror enabled")
	}

	store := repository.NewStore(pool)

	notifications := service.NewNotificationService(store, telegram, logger)
	profiles := service.NewProfileService(store, notifications, logger)
	payments := service.NewPaymentService(store, notifications, logger)
	tutoring := service.NewTutoringService(store, notifications, logger)
	notes := service.NewNoteService(store, logger)
	analytics := service.NewAnalyticsService(store, logger)
	admin := service.NewAdminService(store, notifications, logger)
	files := service.NewFileService(store, cfg.UploadDir, logger)

	generator := ai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AITimeout)
	var rateLimiter service.RateLimiter
	if limiter != nil {
		rateLimiter = limiter
	}
	enrichment := service.NewEnrichmentService(store, generator, rateLimiter, notifications, logger)

	worker := app.NewWorker(enrichment, cfg.WorkerInterval, cfg.TaskVisibility, logger)
	worker.Start(ctx)
	defer worker.Stop()

	server := httpapi.NewServer(httpapi.Services{
		Profiles:      profiles,
		Tutoring:      tutoring,
		Payments:      payments,
		Notes:         notes,
		Notifications: notifications,
		Analytics:     analytics,
		Admin:         admin,
		Files:         files,
	}, cfg.JWTSecret, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
