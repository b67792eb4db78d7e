package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ratedesk/ratedesk-backend/api/routes"
	"github.com/ratedesk/ratedesk-backend/internal/catalog"
	"github.com/ratedesk/ratedesk-backend/internal/lookups"
	"github.com/ratedesk/ratedesk-backend/internal/offers"
	"github.com/ratedesk/ratedesk-backend/internal/schema"
	pkgauth "github.com/ratedesk/ratedesk-backend/pkg/auth"
	"github.com/ratedesk/ratedesk-backend/pkg/config"
	"github.com/ratedesk/ratedesk-backend/pkg/db"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
	"github.com/ratedesk/ratedesk-backend/pkg/metrics"
	"github.com/ratedesk/ratedesk-backend/pkg/redis"
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

	if err := schema.NewGuard(dbClient, logg).Run(context.Background()); err != nil {
		logg.Error(context.Background(), "schema guard failed", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	offerMetrics := metrics.NewOfferMetrics(registry)

	offersService, err := offers.NewService(offers.NewRepository(dbClient.DB()), dbClient, logg, offerMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create offers service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	lookupsService, err := lookups.NewService(lookups.NewRepository(dbClient.DB()), redisClient, cfg.Lookups.CacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create lookups service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			pkgauth.NewChecker(),
			offersService,
			catalogService,
			lookupsService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
