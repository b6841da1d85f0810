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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quickcartlabs/quickcart-backend/api/routes"
	"github.com/quickcartlabs/quickcart-backend/internal/auth"
	"github.com/quickcartlabs/quickcart-backend/internal/carts"
	"github.com/quickcartlabs/quickcart-backend/internal/catalog"
	"github.com/quickcartlabs/quickcart-backend/internal/checkout"
	"github.com/quickcartlabs/quickcart-backend/internal/coupons"
	"github.com/quickcartlabs/quickcart-backend/internal/orders"
	"github.com/quickcartlabs/quickcart-backend/pkg/config"
	"github.com/quickcartlabs/quickcart-backend/pkg/db"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
	"github.com/quickcartlabs/quickcart-backend/pkg/metrics"
	"github.com/quickcartlabs/quickcart-backend/pkg/migrate"
	"github.com/quickcartlabs/quickcart-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	cartRepo := carts.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	couponRepo := coupons.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	userRepo := auth.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	exitOn(logg, "catalog service", err)

	couponService, err := coupons.NewService(couponRepo)
	exitOn(logg, "coupon service", err)

	cartService, err := carts.NewService(cartRepo, catalogRepo, couponService, cfg.Pricing, logg, cartMetrics)
	exitOn(logg, "cart service", err)

	authService, err := auth.NewService(redisClient, userRepo, cartService, cfg.App, cfg.OTP, cfg.JWT, logg)
	exitOn(logg, "auth service", err)

	orderService, err := orders.NewService(orderRepo)
	exitOn(logg, "orders service", err)

	checkoutService, err := checkout.NewService(dbClient, cartService, cartRepo, catalogRepo, orderRepo, logg, cartMetrics)
	exitOn(logg, "checkout service", err)

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DBPinger:    dbClient,
		RedisPinger: redisClient,
		RateLimiter: redisClient,
		HTTPMetrics: httpMetrics,
		Gatherer:    registry,
		Auth:        authService,
		Catalog:     catalogService,
		Carts:       cartService,
		Checkout:    checkoutService,
		Orders:      orderService,
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
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}

func exitOn(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
