package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sellerdesk/wb-sync/api/routes"
	"github.com/sellerdesk/wb-sync/internal/catalog"
	"github.com/sellerdesk/wb-sync/internal/cron"
	"github.com/sellerdesk/wb-sync/internal/orders"
	"github.com/sellerdesk/wb-sync/internal/stores"
	syncsvc "github.com/sellerdesk/wb-sync/internal/sync"
	"github.com/sellerdesk/wb-sync/pkg/config"
	"github.com/sellerdesk/wb-sync/pkg/db"
	"github.com/sellerdesk/wb-sync/pkg/logger"
	"github.com/sellerdesk/wb-sync/pkg/metrics"
	"github.com/sellerdesk/wb-sync/pkg/migrate"
	"github.com/sellerdesk/wb-sync/pkg/redis"
	"github.com/sellerdesk/wb-sync/pkg/wildberries"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "sync-worker"

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
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

	storeRepo := stores.NewRepository(dbClient.DB())
	storeSvc, err := stores.NewService(storeRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stores service", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(dbClient, catalog.NewRepository(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	orderSvc, err := orders.NewService(dbClient, orders.NewRepository(), catalog.NewRepository(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	factory := func(creds wildberries.Credentials) syncsvc.APIClient {
		return wildberries.NewClient(cfg.Wildberries, creds, logg)
	}
	syncService, err := syncsvc.NewService(cfg.Sync, storeSvc, catalogSvc, orderSvc, factory, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewSyncJobMetrics(prometheus.DefaultRegisterer)

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cfg.App.Env), cfg.Sync.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync lock", err)
		os.Exit(1)
	}

	productJob, err := cron.NewProductSyncJob(cron.ProductSyncJobParams{
		Logger:  logg,
		Syncer:  syncService,
		Metrics: metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product sync job", err)
		os.Exit(1)
	}
	orderJob, err := cron.NewOrderSyncJob(cron.OrderSyncJobParams{
		Logger:  logg,
		Syncer:  syncService,
		Metrics: metricsCollector,
		Rebuild: cfg.Sync.Rebuild,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order sync job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(productJob, orderJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Sync.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	opsServer := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, storeRepo),
	}
	go func() {
		logg.Info(logg.WithField(ctx, "addr", opsServer.Addr), "starting ops server")
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "ops server stopped unexpectedly", err)
		}
	}()
	defer func() {
		if err := opsServer.Shutdown(context.Background()); err != nil {
			logg.Error(ctx, "error shutting down ops server", err)
		}
	}()

	logg.Info(ctx, "starting sync worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}
