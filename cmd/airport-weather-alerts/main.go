package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/airport-weather-alerts/internal/alert"
	httpapi "github.com/i474232898/airport-weather-alerts/internal/api/http"
	"github.com/i474232898/airport-weather-alerts/internal/config"
	"github.com/i474232898/airport-weather-alerts/internal/history"
	"github.com/i474232898/airport-weather-alerts/internal/notify"
	"github.com/i474232898/airport-weather-alerts/internal/scheduler"
	"github.com/i474232898/airport-weather-alerts/internal/store"
	"github.com/i474232898/airport-weather-alerts/internal/weather"
	"github.com/i474232898/airport-weather-alerts/internal/weather/providers"
)

func main() {
	// Load configuration; missing notification credentials abort before
	// any location is processed.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider and channel calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Primary forecast source and historical archive (Open-Meteo serves both).
	openMeteo := providers.NewOpenMeteoProvider(httpClient)

	// Corroborating sources, each optional.
	var peaks []weather.PeakProvider
	if cfg.OpenWeatherAPIKey != "" {
		peaks = append(peaks, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		peaks = append(peaks, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}

	enricher := history.NewEnricher(openMeteo, peaks, cfg.HistoryYears)

	// Notification channels. Telegram is required; Slack is optional.
	notifiers := []alert.Notifier{
		notify.NewTelegramNotifier(httpClient, cfg.TelegramBotToken, cfg.TelegramChatID),
	}
	if cfg.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(httpClient, cfg.SlackWebhookURL))
	}

	stateStore := store.NewFileStore(cfg.StateFile)

	service := alert.NewService(cfg.Locations, openMeteo, enricher, stateStore, notifiers, cfg.ForecastHorizonDays)

	// Scheduler that periodically runs the check.
	sched := scheduler.New(service, cfg.CheckInterval, 5*time.Minute)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "airport-weather-alerts",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "airport-weather-alerts",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, stateStore)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
