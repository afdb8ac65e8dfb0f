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
	"go.uber.org/multierr"

	"github.com/skeldnet/cosmetics-backend/api/controllers"
	"github.com/skeldnet/cosmetics-backend/api/routes"
	"github.com/skeldnet/cosmetics-backend/internal/bundles"
	"github.com/skeldnet/cosmetics-backend/internal/entitlements"
	"github.com/skeldnet/cosmetics-backend/internal/items"
	"github.com/skeldnet/cosmetics-backend/internal/purchases"
	"github.com/skeldnet/cosmetics-backend/pkg/accounts"
	"github.com/skeldnet/cosmetics-backend/pkg/config"
	"github.com/skeldnet/cosmetics-backend/pkg/db"
	"github.com/skeldnet/cosmetics-backend/pkg/logger"
	"github.com/skeldnet/cosmetics-backend/pkg/metrics"
	"github.com/skeldnet/cosmetics-backend/pkg/redis"
	"github.com/skeldnet/cosmetics-backend/pkg/steam"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cosmetics"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cosmetics",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.AutoMigrate(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to run auto-migration", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	accountsClient, err := accounts.NewClient(cfg.Accounts)
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts client", err)
		os.Exit(1)
	}

	steamClient, err := steam.NewClient(cfg.Steam)
	if err != nil {
		logg.Error(context.Background(), "failed to create steam client", err)
		os.Exit(1)
	}

	itemsRepo := items.NewRepository(dbClient.DB())
	bundlesRepo := bundles.NewRepository(dbClient.DB())
	purchasesRepo := purchases.NewRepository(dbClient.DB())

	itemsService, err := items.NewService(itemsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create items service", err)
		os.Exit(1)
	}

	bundlesService, err := bundles.NewService(bundlesRepo, itemsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create bundles service", err)
		os.Exit(1)
	}

	purchasesService, err := purchases.NewService(purchasesRepo, bundlesRepo, steamClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchases service", err)
		os.Exit(1)
	}

	entitlementsService, err := entitlements.NewService(purchasesRepo, bundlesRepo, itemsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create entitlements service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		Verifier:     accountsClient,
		Redis:        redisClient,
		HTTPMetrics:  httpMetrics,
		Items:        itemsService,
		Bundles:      bundlesService,
		Purchases:    purchasesService,
		Entitlements: entitlementsService,
		Readiness: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting cosmetics server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "cosmetics server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing clients", closeErr)
		os.Exit(1)
	}
}
