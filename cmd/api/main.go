package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/drinkshop/drinkshop-backend/api/routes"
	"github.com/drinkshop/drinkshop-backend/internal/cart"
	"github.com/drinkshop/drinkshop-backend/pkg/config"
	"github.com/drinkshop/drinkshop-backend/pkg/db"
	"github.com/drinkshop/drinkshop-backend/pkg/instance"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
	"github.com/drinkshop/drinkshop-backend/pkg/metrics"
	"github.com/drinkshop/drinkshop-backend/pkg/migrate"
	"github.com/drinkshop/drinkshop-backend/pkg/redis"
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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	params := cart.ServiceParams{
		Repo:    cart.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Logger:  logg,
		Metrics: metrics.NewCartMetrics(reg),
		Origin:  instance.ID(cfg.App.InstanceID),
	}

	// A nil interface keeps the readiness probe from pinging a disabled relay.
	var redisPinger redis.Pinger
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		redisPinger = redisClient
		params.Notifier = redisClient
		params.Channel = redisClient.ChannelKey(cfg.Redis.Channel)
	}

	cartService, err := cart.NewService(params)
	if err != nil {
		return err
	}
	defer cartService.Close()

	if redisClient != nil {
		go func() {
			if err := redisClient.Relay(ctx, params.Channel, cartService.HandleRemoteChange); err != nil {
				logg.Error(ctx, "cart change relay stopped", err)
			}
		}()
	}

	addr := ":" + cfg.App.Port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Driver(),
		"relay":  redisClient != nil,
	})
	logg.Info(logCtx, "starting api server")

	// No WriteTimeout: the cart stream holds responses open.
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisPinger, cartService, reg),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	// Ending subscriptions first lets stream handlers return before Shutdown waits on them.
	cartService.Close()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
