package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/speakeasy-backend/api"
	"github.com/angelmondragon/speakeasy-backend/api/routes"
	"github.com/angelmondragon/speakeasy-backend/internal/drinks"
	"github.com/angelmondragon/speakeasy-backend/internal/reservations"
	"github.com/angelmondragon/speakeasy-backend/pkg/config"
	"github.com/angelmondragon/speakeasy-backend/pkg/db"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
	"github.com/angelmondragon/speakeasy-backend/pkg/metrics"
	"github.com/angelmondragon/speakeasy-backend/pkg/migrate"
	"github.com/angelmondragon/speakeasy-backend/pkg/outbox"
	"github.com/angelmondragon/speakeasy-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.Prepare(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to prepare schema", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	loc, err := cfg.Reservations.Location()
	if err != nil {
		logg.Error(ctx, "invalid reservations time zone", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	reservationSvc, err := reservations.NewService(reservations.ServiceParams{
		Repo:    reservations.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Outbox:  outboxSvc,
		Logger:  logg,
		Metrics: metrics.NewBookingMetrics(registry),
		Options: reservations.Options{
			Slots:         cfg.Reservations.Slots,
			Location:      loc,
			DiscountEvery: cfg.Reservations.DiscountEvery,
			DiscountCode:  cfg.Reservations.DiscountCode,
			CodeAttempts:  cfg.Reservations.CodeAttempts,
		},
	})
	if err != nil {
		logg.Error(ctx, "failed to create reservation service", err)
		os.Exit(1)
	}

	drinkSvc, err := drinks.NewService(drinks.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(ctx, "failed to create drink service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:             dbClient,
		Redis:          redisClient,
		Reservations:   reservationSvc,
		Drinks:         drinkSvc,
		HTTPMetrics:    metrics.NewHTTPMetrics(registry),
		MetricsHandler: metrics.Handler(registry),
	})

	server := api.NewServer(cfg.App, handler)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   server.Addr,
		"driver": dbClient.Driver(),
	})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(logCtx, "graceful shutdown failed", err)
	}
	logg.Info(logCtx, "api server stopped")
}
