package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/loomhotels/roomledger/api/routes"
	"github.com/loomhotels/roomledger/internal/inventory"
	"github.com/loomhotels/roomledger/internal/seed"
	"github.com/loomhotels/roomledger/pkg/config"
	"github.com/loomhotels/roomledger/pkg/db"
	"github.com/loomhotels/roomledger/pkg/db/models"
	"github.com/loomhotels/roomledger/pkg/logger"
)

const serviceName = "inventory-api"

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

	if cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.DB().AutoMigrate(&models.Hotel{}, &models.InventoryRow{}); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}
	if cfg.App.IsDev() && cfg.FeatureFlags.SeedSampleData {
		if err := seed.Populate(context.Background(), dbClient.DB(), logg); err != nil {
			logg.Error(context.Background(), "failed to seed sample inventory", err)
			os.Exit(1)
		}
	}

	inventoryService := inventory.NewService(inventory.NewRepository(dbClient.DB()), logg)
	router := routes.NewInventoryRouter(cfg, logg, inventoryService, prometheus.NewRegistry())

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": ":" + port,
	})
	logg.Info(ctx, "starting inventory api")

	server := &http.Server{Addr: ":" + port, Handler: router}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "server stopped unexpectedly", err)
		os.Exit(1)
	}
}
