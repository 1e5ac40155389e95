package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/sundus-book-orders/internal/app/api"
	platformobservability "github.com/Apurer/sundus-book-orders/internal/platform/observability"
	notificationactivities "github.com/Apurer/sundus-book-orders/internal/platform/temporal/activities/notifications"
	notificationworkflows "github.com/Apurer/sundus-book-orders/internal/platform/temporal/workflows/notifications"
)

func main() {
	ctx := context.Background()
	const serviceName = "sundus-book-orders-worker"
	if err := api.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.TemporalAddress == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	activities := notificationactivities.NewActivities(api.BuildDeliverer(logger, cfg))

	temporalClient, err := api.ConnectTemporalClient(instruments, cfg, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, notificationworkflows.NotificationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(notificationworkflows.NotificationWorkflow, workflow.RegisterOptions{Name: notificationworkflows.NotificationWorkflowName})
	w.RegisterActivityWithOptions(activities.Deliver, activity.RegisterOptions{Name: notificationactivities.DeliverActivityName})

	logger.Info("worker listening", slog.String("taskQueue", notificationworkflows.NotificationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
