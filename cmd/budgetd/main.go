package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetdash/internal/amqp"
	"budgetdash/internal/backend"
	"budgetdash/internal/budget"
	"budgetdash/internal/cli"
	"budgetdash/internal/format"
	apphttp "budgetdash/internal/http"
	"budgetdash/internal/log"
	"budgetdash/internal/middleware/ratelimit"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, log.ComponentApp)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	logger.Info("Starting budgetd", log.FieldBackend, cfg.DataBackend, log.FieldOperation, log.OpStartup)

	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			log.NewFields().WithError(err).WithErrorType(log.ErrorTypeConfiguration).ToSlice()...)
		os.Exit(1)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	opts := []budget.Option{
		budget.WithLogger(logger),
		budget.WithDepartmentCache(cfg.DepartmentCacheTTL),
	}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events are best effort; the dashboard runs without them.
			logger.WithComponent(log.ComponentAMQP).Warn("AMQP unavailable, budget events disabled", log.FieldError, err)
		} else {
			defer client.Close()
			opts = append(opts, budget.WithPublisher(client))
			logger.WithComponent(log.ComponentAMQP).Info("Publishing budget events",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	svc := budget.NewService(res.Store, opts...)

	var limiter *ratelimit.Limiter
	if cfg.RateLimitRPS > 0 {
		rlCfg := ratelimit.DefaultConfig()
		rlCfg.RequestsPerSecond = cfg.RateLimitRPS
		rlCfg.Burst = cfg.RateLimitBurst
		limiter = ratelimit.NewLimiter(rlCfg)
	}

	srv := apphttp.NewServer(cfg.Addr(), svc, apphttp.Options{
		Formatter:      format.New(cfg.Locale, cfg.CurrencySymbol),
		Logger:         logger,
		Limiter:        limiter,
		TrustedProxies: cfg.TrustedProxies,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
