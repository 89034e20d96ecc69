package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tetstore/guestcart-backend/api/routes"
	cartsvc "github.com/tetstore/guestcart-backend/internal/cart"
	"github.com/tetstore/guestcart-backend/internal/cartstore"
	checkoutsvc "github.com/tetstore/guestcart-backend/internal/checkout"
	"github.com/tetstore/guestcart-backend/internal/pricing"
	"github.com/tetstore/guestcart-backend/pkg/config"
	"github.com/tetstore/guestcart-backend/pkg/logger"
	"github.com/tetstore/guestcart-backend/pkg/metrics"
	"github.com/tetstore/guestcart-backend/pkg/redis"
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

	store, err := cartstore.NewRedisStore(redisClient, cfg.Cart.GuestTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	oracle, err := pricing.NewHTTPOracle(cfg.Pricing.BaseURL, cfg.Pricing.Timeout, pricing.WithMetrics(pricingMetrics))
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing oracle", err)
		os.Exit(1)
	}
	discount := pricing.NewCachedDiscount(oracle, cfg.Pricing.DiscountTTL, logg)
	calc, err := pricing.NewCalculator(oracle, discount, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing calculator", err)
		os.Exit(1)
	}

	engine, err := cartsvc.NewEngine(store, calc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart engine", err)
		os.Exit(1)
	}

	checkoutClient, err := checkoutsvc.NewClient(cfg.Checkout.BaseURL, cfg.Checkout.Timeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout client", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(store, checkoutClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, engine, checkoutService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
