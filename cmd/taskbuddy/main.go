package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"taskbuddy/internal/cache"
	"taskbuddy/internal/config"
	"taskbuddy/internal/httpapi"
	"taskbuddy/internal/logger"
	"taskbuddy/internal/repository"
	"taskbuddy/internal/service"
	"taskbuddy/internal/telegram"
)

const jobTimeout = 2 * time.Minute

type reminderGuard interface {
	service.ReminderGuard
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	appLogger := logger.New(cfg)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	var guard reminderGuard = cache.NoOpReminderGuard{}
	if cfg.RedisURL != "" {
		redisGuard, err := cache.NewRedisReminderGuard(ctx, cfg.RedisURL, appLogger)
		if err != nil {
			appLogger.Warn("⚠️ [Redis] Unavailable, reminders are not deduplicated", "error", err)
		} else {
			guard = redisGuard
		}
	}
	defer guard.Close()

	gateway := telegram.New(cfg.TelegramToken, cfg.TelegramAPIEndpoint, repository.NewUserRepository(db), appLogger)
	if !gateway.Enabled() {
		appLogger.Warn("⚠️ [Telegram] TELEGRAM_BOT_TOKEN is empty, messages will not be sent")
	}

	authSvc := service.NewAuthService(db, cfg.TokenTTL, appLogger)
	reminderSvc := service.NewReminderService(db, gateway, guard, cfg.Location, appLogger)

	scheduler := service.NewSchedulerService(cfg.Location, jobTimeout, appLogger)
	if _, err := scheduler.ScheduleDaily("reminder-sweep", cfg.ReminderSchedule, func(ctx context.Context) error {
		_, err := reminderSvc.RunSweep(ctx, time.Now())
		return err
	}); err != nil {
		log.Fatalf("schedule reminders: %v", err)
	}
	if _, err := scheduler.ScheduleInterval("token-purge", 24*time.Hour, func(ctx context.Context) error {
		_, err := authSvc.PurgeExpiredTokens(ctx)
		return err
	}); err != nil {
		log.Fatalf("schedule token purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.TelegramPolling && gateway.Enabled() {
		go func() {
			if err := gateway.Poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error("❌ [Telegram] Polling stopped", "error", err)
			}
		}()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(httpapi.Services{
		Auth:          authSvc,
		Goals:         service.NewGoalService(db, appLogger),
		Notifications: service.NewNotificationService(db, appLogger),
		Reminders:     reminderSvc,
		Profiles:      service.NewProfileService(db, cfg.TelegramBotUsername, appLogger),
		Telegram:      gateway,
	}, httpapi.Options{
		ReminderSecret: cfg.ReminderSecret,
		WebhookSecret:  cfg.WebhookSecret,
		Production:     cfg.IsProduction(),
		Logger:         appLogger,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("❌ [HTTP] Shutdown failed", "error", err)
		}
	}()

	appLogger.Info("🚀 TaskBuddy API started", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLogger.Error("❌ [HTTP] Server stopped with error", "error", err)
		return
	}
	appLogger.Info("Shutdown complete.")
}
