package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/redis/go-redis/v9"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/logging"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/routes"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout, optionally a rotated file)
	baseHandler := logging.Setup(cfg.LogLevel, cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// A missing zone database makes every date wrong; refuse to start.
	dates, err := clock.NewResolver(time.Now)
	if err != nil {
		slog.Error("failed to load time zone", "zone", clock.Zone, "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminFullName); err != nil {
		slog.Error("admin seeding failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(baseHandler, pgLogHandler)))

	cleanup, err := logging.StartCleanup(db, cfg.LogRetentionDays)
	if err != nil {
		slog.Error("log cleanup scheduling failed", "error", err)
		os.Exit(1)
	}
	if _, err := cleanup.AddFunc("@daily", func() {
		if n, err := database.PurgeExpiredRefreshTokens(db); err != nil {
			slog.Error("refresh token cleanup failed", "error", err)
		} else if n > 0 {
			slog.Info("refresh token cleanup completed", "deleted", n)
		}
	}); err != nil {
		slog.Error("refresh token cleanup scheduling failed", "error", err)
		os.Exit(1)
	}

	// Redis is optional; without it revoked tokens are tracked in memory.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		slog.Info("redis token blacklist enabled", "addr", cfg.RedisAddr)
	}
	blacklist := services.NewTokenBlacklist(redisClient)

	// Services
	authService := services.NewAuthService(db, cfg, blacklist)
	prayerService := services.NewPrayerService(services.NewGormPrayerStore(db), dates)

	// Handlers
	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, prayerService),
		Prayer: handlers.NewPrayerHandler(prayerService),
		Admin:  handlers.NewAdminHandler(prayerService),
		Health: handlers.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}, blacklist),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	metrics.Init()

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(compress.New())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.Metrics())

	// Routes
	routes.Setup(app, cfg, blacklist, authService, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "zone", clock.Zone, "today", dates.Today())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	<-cleanup.Stop().Done()

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := blacklist.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}

	// Close database connections
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
