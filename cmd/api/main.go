package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/olivegrove/eshop-backend/api/routes"
	"github.com/olivegrove/eshop-backend/internal/audit"
	"github.com/olivegrove/eshop-backend/internal/cart"
	"github.com/olivegrove/eshop-backend/internal/catalog"
	"github.com/olivegrove/eshop-backend/internal/checkout"
	"github.com/olivegrove/eshop-backend/internal/inventory"
	"github.com/olivegrove/eshop-backend/internal/notifications"
	"github.com/olivegrove/eshop-backend/internal/orders"
	"github.com/olivegrove/eshop-backend/internal/pricing"
	"github.com/olivegrove/eshop-backend/pkg/config"
	"github.com/olivegrove/eshop-backend/pkg/db"
	"github.com/olivegrove/eshop-backend/pkg/logger"
	"github.com/olivegrove/eshop-backend/pkg/metrics"
	"github.com/olivegrove/eshop-backend/pkg/migrate"
	"github.com/olivegrove/eshop-backend/pkg/redis"
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

	var dbClient *db.Client
	var redisClient *redis.Client
	defer func() {
		var closeErr error
		if redisClient != nil {
			closeErr = multierr.Append(closeErr, redisClient.Close())
		}
		if dbClient != nil {
			closeErr = multierr.Append(closeErr, dbClient.Close())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	dbClient, err = db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err = redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	vat, err := pricing.NewVATCalculatorFromString(cfg.Shop.VATRate)
	if err != nil {
		logg.Error(context.Background(), "invalid vat rate", err)
		os.Exit(1)
	}
	zones, err := pricing.ParseZones(cfg.Shop.ShippingZonesJSON)
	if err != nil {
		logg.Error(context.Background(), "invalid shipping zones", err)
		os.Exit(1)
	}
	shipping, err := pricing.NewShippingResolver(zones)
	if err != nil {
		logg.Error(context.Background(), "failed to build shipping resolver", err)
		os.Exit(1)
	}
	totals := pricing.NewTotalsCalculator(vat)

	auditor, err := audit.NewRecorder(dbClient.DB(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit recorder", err)
		os.Exit(1)
	}
	notifier, err := notifications.NewLogNotifier(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}
	stock, err := inventory.NewEngine(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory engine", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient, auditor)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, totals, shipping)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(checkout.NewRepository(dbClient.DB()), dbClient, stock, notifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, stock, auditor, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(routes.Dependencies{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Metrics:  httpMetrics,
			Registry: registry,
			Shipping: shipping,
			Catalog:  catalogService,
			Cart:     cartService,
			Checkout: checkoutService,
			Orders:   orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
