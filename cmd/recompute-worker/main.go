package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Abid-Al-Labib/erp-base-sub000/internal/approval"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/inventory"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/machines"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/orders"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/projects"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/receipt"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/recompute"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/workflow"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/config"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/metrics"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/migrate"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/outbox"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/redis"
)

// watchedTables are the aggregates whose changes can move an order's
// advance/revert visibility.
var watchedTables = []string{
	enums.AggregateOrder.Table(),
	enums.AggregateOrderLineItem.Table(),
	enums.AggregateStoragePart.Table(),
	enums.AggregateMachinePart.Table(),
	enums.AggregateDamagedPart.Table(),
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "recompute-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "recompute-worker",
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

	gormDB := dbClient.DB()
	storageRepo := inventory.NewStorageRepository(gormDB)
	machinePartsRepo := inventory.NewMachineRepository(gormDB)
	damagedRepo := inventory.NewDamagedRepository(gormDB)
	workflowRepo := workflow.NewRepository(gormDB)

	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)
	approvalProc := approval.NewProcessor(storageRepo, machinePartsRepo, damagedRepo, machines.NewRepository(gormDB))
	receiptProc := receipt.NewProcessor(storageRepo, machinePartsRepo, damagedRepo, projects.NewRepository(gormDB))

	ordersSvc, err := orders.NewService(orders.NewRepository(gormDB), workflowRepo, storageRepo, dbClient, outboxSvc, approvalProc, receiptProc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	go metrics.Serve(ctx, cfg.App.MetricsPort, reg, logg)

	engine := recompute.NewEngine(ordersSvc, workflowRepo, logg)
	registry := recompute.NewRegistry(engine, logg, metrics.NewRecomputeMetrics(reg))

	notifications, err := redisClient.SubscribeChanges(ctx, cfg.Outbox.ChannelPrefix, watchedTables...)
	if err != nil {
		logg.Error(ctx, "failed to subscribe to change channels", err)
		os.Exit(1)
	}

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "tables": len(watchedTables)})
	logg.Info(logCtx, "recompute worker listening")

	for notification := range notifications {
		registry.Notify(ctx, notification.OrderID, notification.Table)
	}

	logg.Info(logCtx, "recompute worker shutting down gracefully")
}
