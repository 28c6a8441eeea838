package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetbot/internal/amqp"
	"budgetbot/internal/backend"
	"budgetbot/internal/cli"
	"budgetbot/internal/dialog"
	"budgetbot/internal/services"
	"budgetbot/internal/session"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("budgetbot")

	logger.Info("Starting budgetbot")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange,
		cfg.AMQPEventsQueue, cfg.AMQPRepliesQueue, cfg.AMQPExportQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	svc := services.NewConversationService(
		dialog.NewMachine(result.Backend, result.Backend),
		session.NewStore(cfg.SessionCapacity, cfg.SessionTTL),
		amqpClient,
	)

	logger.Info("Consuming user events",
		"backend", cfg.DataBackend,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPEventsQueue)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeUserEvents(gctx, svc.HandleEvent)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	// Give in-flight handlers a moment before the deferred closes run.
	time.Sleep(500 * time.Millisecond)
	logger.Info("Budgetbot stopped gracefully")
}
