package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Abid-Al-Labib/erp-base-sub000/api/routes"
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
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/metrics"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/migrate"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/outbox"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/redis"
)

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
	machinesRepo := machines.NewRepository(gormDB)
	projectsRepo := projects.NewRepository(gormDB)
	workflowRepo := workflow.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)

	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)
	approvalProc := approval.NewProcessor(storageRepo, machinePartsRepo, damagedRepo, machinesRepo)
	receiptProc := receipt.NewProcessor(storageRepo, machinePartsRepo, damagedRepo, projectsRepo)

	ordersSvc, err := orders.NewService(ordersRepo, workflowRepo, storageRepo, dbClient, outboxSvc, approvalProc, receiptProc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	controlsEngine := recompute.NewEngine(ordersSvc, workflowRepo, logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	go metrics.Serve(ctx, cfg.App.MetricsPort, reg, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient,
			ordersSvc, controlsEngine,
			storageRepo, machinePartsRepo, damagedRepo,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(logCtx, "api server shut down gracefully")
}
