package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/loomhotels/roomledger/internal/bookings"
	"github.com/loomhotels/roomledger/internal/cron"
	"github.com/loomhotels/roomledger/internal/inventoryclient"
	"github.com/loomhotels/roomledger/pkg/config"
	"github.com/loomhotels/roomledger/pkg/db"
	"github.com/loomhotels/roomledger/pkg/logger"
	"github.com/loomhotels/roomledger/pkg/metrics"
	"github.com/loomhotels/roomledger/pkg/redis"
)

const serviceName = "reconciler-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = serviceName

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
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

	promRegistry := prometheus.NewRegistry()
	cronMetrics := metrics.NewCronJobMetrics(promRegistry)
	adjustMetrics := metrics.NewAdjustMetrics(promRegistry)

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("checkout-sweep"), cfg.Reconciler.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciler lock", err)
		os.Exit(1)
	}

	sweep := cron.NewCheckoutSweepJob(
		bookings.NewRepository(dbClient.DB()),
		inventoryclient.New(cfg.Inventory),
		logg,
		adjustMetrics,
	)

	service, err := cron.NewService(cron.Options{
		Logger:   logg,
		Registry: cron.NewRegistry(sweep),
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Reconciler.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciler service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Reconciler.Interval.String(),
	})
	logg.Info(ctx, "starting reconciler worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "reconciler worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "reconciler worker shutting down gracefully")
}
