package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/prodeel-backend/api/routes"
	"github.com/angelmondragon/prodeel-backend/internal/calendar"
	"github.com/angelmondragon/prodeel-backend/internal/customers"
	"github.com/angelmondragon/prodeel-backend/internal/dashboard"
	"github.com/angelmondragon/prodeel-backend/internal/orders"
	product "github.com/angelmondragon/prodeel-backend/internal/products"
	"github.com/angelmondragon/prodeel-backend/internal/settings"
	"github.com/angelmondragon/prodeel-backend/internal/storefront"
	"github.com/angelmondragon/prodeel-backend/pkg/config"
	"github.com/angelmondragon/prodeel-backend/pkg/db"
	"github.com/angelmondragon/prodeel-backend/pkg/instance"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/angelmondragon/prodeel-backend/pkg/metrics"
	"github.com/angelmondragon/prodeel-backend/pkg/migrate"
	"github.com/angelmondragon/prodeel-backend/pkg/redis"
	"github.com/angelmondragon/prodeel-backend/pkg/storage/gcs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
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

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	deps := routes.Deps{DB: dbClient}

	var seriesCache redis.Cache
	if cfg.Redis.Enabled() {
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
		deps.Redis = redisClient
		deps.RateLimiter = redisClient
		if cfg.FeatureFlags.CacheSeries {
			seriesCache = redisClient
		}
	} else {
		logg.Warn(ctx, "redis not configured, series cache and rate limiting disabled")
	}

	var images product.ImageStore
	maxImageBytes := int64(cfg.GCS.MaxUploadMB) << 20
	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	switch {
	case err == nil:
		images = gcsClient
		deps.GCS = gcsClient
		maxImageBytes = gcsClient.MaxUploadBytes()
	case errors.Is(err, gcs.ErrNotConfigured):
		logg.Warn(ctx, "gcs bucket not configured, product image uploads disabled")
	default:
		logg.Error(ctx, "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Gatherer = registry

	settingsRepo := settings.NewRepository(dbClient.DB())
	settingsSvc, err := settings.NewService(settingsRepo)
	if err != nil {
		logg.Error(ctx, "failed to create settings service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	productSvc, err := product.NewService(product.NewRepository(dbClient.DB()), settingsSvc, images, logg, maxImageBytes)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	customersSvc, err := customers.NewService(ordersSvc)
	if err != nil {
		logg.Error(ctx, "failed to create customers service", err)
		os.Exit(1)
	}

	dashboardSvc, err := dashboard.NewService(ordersSvc, productSvc, seriesCache, metrics.NewRevenueMetrics(registry), logg, dashboard.Options{
		CacheTTL:    cfg.Dashboard.SeriesCacheTTL,
		TopProducts: cfg.Dashboard.TopProducts,
		Location:    cfg.App.Location(),
	})
	if err != nil {
		logg.Error(ctx, "failed to create dashboard service", err)
		os.Exit(1)
	}

	calendarSvc, err := calendar.NewService(settingsRepo, logg, metrics.NewCalendarMetrics(registry), calendar.Options{
		MaxEvents:        cfg.Calendar.MaxEvents,
		MaxContentLength: cfg.Calendar.MaxContentLength,
	})
	if err != nil {
		logg.Error(ctx, "failed to create calendar service", err)
		os.Exit(1)
	}

	loader, err := storefront.NewLoader(storefront.ServiceSource{
		Orders:   ordersSvc,
		Products: productSvc,
		Settings: settingsSvc,
	}, logg)
	if err != nil {
		logg.Error(ctx, "failed to create storefront loader", err)
		os.Exit(1)
	}

	deps.Dashboard = dashboardSvc
	deps.Orders = ordersSvc
	deps.Customers = customersSvc
	deps.Products = productSvc
	deps.Settings = settingsSvc
	deps.Calendar = calendarSvc
	deps.Loader = loader

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	exitCode := 0
	select {
	case err := <-serverErr:
		if err != nil {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "api server shutdown failed", err)
	}
	if err := calendarSvc.FlushAll(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "failed to flush calendars on shutdown", err)
		exitCode = 1
	}
	if exitCode != 0 {
		stop()
		os.Exit(exitCode)
	}
}
