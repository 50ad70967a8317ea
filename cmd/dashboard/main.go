package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/i474232898/commute-dashboard/internal/api/http"
	"github.com/i474232898/commute-dashboard/internal/board"
	"github.com/i474232898/commute-dashboard/internal/clock"
	"github.com/i474232898/commute-dashboard/internal/config"
	"github.com/i474232898/commute-dashboard/internal/feeds"
	"github.com/i474232898/commute-dashboard/internal/logging"
	"github.com/i474232898/commute-dashboard/internal/metrics"
	"github.com/i474232898/commute-dashboard/internal/scheduler"
	"github.com/i474232898/commute-dashboard/internal/store"
)

const appName = "commute-dashboard"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logging.New(cfg.AppEnv, cfg.LogLevel, appName)
	slog.SetDefault(appLog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Shared HTTP client for outbound feed calls, wrapped with backoff and circuit breakers.
	fetcher := feeds.NewClient(&http.Client{
		Timeout: cfg.HTTPTimeout,
	})

	service := board.NewService(fetcher, store.NewMemoryStore(), clock.System{}, metrics.New(reg), appLog, board.Options{
		WeatherURL:            feeds.SMHIForecastURL(cfg.SMHIBaseURL, cfg.WeatherLat, cfg.WeatherLon),
		JourneyPlannerBaseURL: cfg.JourneyPlannerBaseURL,
		TripsPerQuery:         cfg.TripsPerQuery,
		TopN:                  cfg.DeparturesTopN,
		Routes:                cfg.Routes,
		Stations:              cfg.StationTable(),
		Locale:                cfg.Locale,
		Timezone:              cfg.Timezone,
	})

	// Scheduler that periodically refreshes both feeds.
	sched := scheduler.New(service, scheduler.Intervals{
		Weather:    cfg.WeatherInterval,
		Departures: cfg.DeparturesInterval,
	}, appLog)
	if err := sched.Start(); err != nil {
		appLog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, service)
	httpapi.RegisterMetrics(app, reg)
	app.Static("/", cfg.StaticDir)

	go func() {
		appLog.Info("listening", "port", cfg.Port, "routes", len(cfg.Routes))
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLog.Error("error during shutdown", "error", err)
	}
}
