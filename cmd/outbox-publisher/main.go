package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/config"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/metrics"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/migrate"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/outbox"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "outbox-publisher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	go metrics.Serve(ctx, cfg.App.MetricsPort, reg, logg)

	publisher := outbox.NewPublisher(
		outbox.NewRepository(dbClient.DB()),
		redisClient,
		cfg.Outbox,
		logg,
		metrics.NewOutboxPublisherMetrics(reg),
	)

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(logCtx, "starting outbox publisher")

	if err := publisher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(logCtx, "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(logCtx, "outbox publisher shutting down gracefully")
}
