package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	paymentApp "github.com/cassiomorais/paygate/internal/application/payment"
	"github.com/cassiomorais/paygate/internal/bootstrap"
	"github.com/cassiomorais/paygate/internal/controller"
	"github.com/cassiomorais/paygate/internal/notification"
	"github.com/cassiomorais/paygate/internal/repository/postgres"
	"github.com/cassiomorais/paygate/internal/repository/redisrepo"
	"github.com/cassiomorais/paygate/internal/settlement"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "paygate-api", "paygate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	paymentRepo := postgres.NewPaymentRepository(app.Pool)
	idempotencyStore := redisrepo.NewIdempotencyStore(app.Redis, app.Config.Redis.IdempotencyTTL)

	// --- Settlement backend ---
	dispatcher := notification.NewHTTPDispatcher(app.Logger, notification.WithMetrics(app.Metrics))
	settlementSvc, err := buildSettlementService(app, dispatcher)
	if err != nil {
		app.Logger.Fatal().Err(err).Msg("Failed to build settlement service")
	}

	// --- Use cases ---
	processPaymentUC := paymentApp.NewProcessPaymentUseCase(paymentRepo, settlementSvc, app.Logger)
	getPaymentUC := paymentApp.NewGetPaymentUseCase(paymentRepo)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:              app.Pool,
		RedisClient:       app.Redis,
		ProcessPaymentUC:  processPaymentUC,
		GetPaymentUC:      getPaymentUC,
		IdempotencyStore:  idempotencyStore,
		Metrics:           app.Metrics,
		CORSConfig:        app.Config.Server.CORS,
		RequestsPerMinute: app.Config.Server.RequestsPerMinute,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down server...")
		}

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error().Err(err).Msg("Server forced to shutdown")
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Server error")
	}
	app.Logger.Info().Msg("Server exited")
}

// buildSettlementService selects the settlement backend from configuration.
func buildSettlementService(app *bootstrap.App, dispatcher notification.Dispatcher) (settlement.Service, error) {
	cfg := app.Config.Settlement

	switch cfg.Backend {
	case "gateway":
		app.Logger.Info().Str("gateway_url", cfg.GatewayURL).Msg("Using real settlement gateway")
		return settlement.NewGatewayClient(
			cfg.GatewayURL,
			app.Logger,
			settlement.WithGatewayHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
			settlement.WithGatewayRetry(cfg.RetryAttempts, cfg.RetryDelay),
			settlement.WithGatewayMetrics(app.Metrics),
		), nil
	default:
		limit, err := cfg.ApprovalLimitDecimal()
		if err != nil {
			return nil, fmt.Errorf("settlement.approval_limit: %w", err)
		}
		app.Logger.Info().
			Str("approval_limit", limit.StringFixed(2)).
			Dur("notify_delay", cfg.NotifyDelay).
			Msg("Using mock settlement service")
		return settlement.NewMockService(
			dispatcher,
			app.Logger,
			settlement.WithApprovalLimit(limit),
			settlement.WithNotifyDelay(cfg.NotifyDelay),
			settlement.WithMockMetrics(app.Metrics),
		), nil
	}
}
