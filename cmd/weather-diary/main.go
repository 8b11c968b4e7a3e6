package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/sjpark-dev/weather-diary/internal/api/http"
	"github.com/sjpark-dev/weather-diary/internal/config"
	"github.com/sjpark-dev/weather-diary/internal/diary"
	"github.com/sjpark-dev/weather-diary/internal/platform/logger"
	"github.com/sjpark-dev/weather-diary/internal/scheduler"
	"github.com/sjpark-dev/weather-diary/internal/store"
	"github.com/sjpark-dev/weather-diary/internal/weather"
)

func main() {
	log := logger.New("weather-diary")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()

	st, err := store.NewSQLite(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}

	// Shared HTTP client for outbound weather API calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	client := weather.NewClient(httpClient, cfg.OpenWeatherAPIKey)

	// Core service; the SQLite store backs both the diary table and the
	// per-date weather cache.
	service := diary.NewService(st, st, client, cfg.City, log)

	// Daily weather refresh.
	sched := scheduler.New(service, cfg.RefreshAt, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-diary",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(httpapi.RequestLogger(log))

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-diary",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
