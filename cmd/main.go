package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/alerts"
	"github.com/UnknownOlympus/quakewatch/internal/chart"
	"github.com/UnknownOlympus/quakewatch/internal/config"
	"github.com/UnknownOlympus/quakewatch/internal/dashboard"
	"github.com/UnknownOlympus/quakewatch/internal/geocoding"
	"github.com/UnknownOlympus/quakewatch/internal/mapview"
	"github.com/UnknownOlympus/quakewatch/internal/metrics"
	"github.com/UnknownOlympus/quakewatch/internal/repository"
	"github.com/UnknownOlympus/quakewatch/internal/seismic"
	"github.com/UnknownOlympus/quakewatch/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const (
	chartWidth      = 800
	chartHeight     = 400
	shutdownTimeout = 10 * time.Second
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The place cache is optional: without DB_HOST every search goes to the provider.
	var (
		cache repository.Interface
		db    server.Pinger
	)
	if cfg.Database.Enabled() {
		pool, err := repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer pool.Close()

		repo := repository.NewRepository(pool, logger)
		if err = repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare place cache: %v", err)
		}
		cache, db = repo, repo
	}

	// Create geocoding provider using factory pattern based on configuration
	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Provider.Type),
		APIKey:    cfg.Provider.APIKey,
		RateLimit: cfg.Provider.RateLimit,
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.Upstream.Timeout,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Provider.Type, "cache", cfg.Database.Enabled())

	resolver := geocoding.NewResolver(logger, geoProvider, cfg.Provider.Type, cache, appMetrics)
	seismicClient := seismic.NewClient(cfg.Upstream.SeismicURL, cfg.Upstream.UserAgent, cfg.Upstream.Timeout, logger)
	alertsClient := alerts.NewClient(cfg.Upstream.AlertsURL, cfg.Upstream.UserAgent, cfg.Upstream.Timeout, logger)

	mapWidget := mapview.NewStateWidget()
	canvas := chart.NewCanvas()
	trend := chart.NewTrendChart(canvas, chart.NewSVGFactory(chartWidth, chartHeight), appMetrics, logger)

	ctrl := dashboard.New(
		logger,
		resolver,
		seismicClient,
		alertsClient,
		mapview.New(mapWidget),
		trend,
		appMetrics,
		dashboard.Options{
			Location:        cfg.Dashboard.Location,
			FetchTimeout:    cfg.Upstream.Timeout,
			RefreshInterval: cfg.Dashboard.RefreshInterval,
		},
	)
	if err = ctrl.Start(ctx); err != nil {
		log.Fatalf("Failed to start dashboard: %v", err)
	}
	go ctrl.Run(ctx)

	srv := server.New(fmt.Sprintf(":%d", cfg.HTTPPort), server.Dependencies{
		Dashboard: ctrl,
		Map:       mapWidget,
		Canvas:    canvas,
		Gatherer:  reg,
		DB:        db,
	}, logger)

	go func() {
		if serveErr := srv.Start(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", serveErr)
			stop()
		}
	}()

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "port", cfg.HTTPPort)

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.Info("Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	// In-flight fetches observe the cancelled context and return.
	ctrl.Wait()

	// Log graceful shutdown completion.
	logger.Info("Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
