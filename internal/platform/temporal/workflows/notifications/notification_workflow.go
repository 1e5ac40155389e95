package notifications

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	notificationapp "github.com/Apurer/sundus-book-orders/internal/domains/notifications/application"
	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
	notificationactivities "github.com/Apurer/sundus-book-orders/internal/platform/temporal/activities/notifications"
)

const (
	// NotificationWorkflowName is the public identifier for registering the workflow.
	NotificationWorkflowName = "orders.workflows.Notification"
	// NotificationTaskQueue is the queue consumed by the notification worker.
	NotificationTaskQueue = "ORDER_NOTIFICATIONS"
)

// NotificationWorkflowInput carries the order snapshot to announce.
type NotificationWorkflowInput struct {
	Notice  domain.OrderNotice
	TraceID string
}

// NotificationResult reports the outcome per channel.
type NotificationResult struct {
	Delivered []ports.Channel
	Failed    []ports.Channel
}

// NotificationWorkflow runs every channel delivery in parallel, each attempted once.
// A failed channel is logged and does not fail the workflow.
func NotificationWorkflow(ctx workflow.Context, input NotificationWorkflowInput) (*NotificationResult, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Notice.ID
	logger.Info("NotificationWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	channels := notificationapp.Channels(input.Notice)
	futures := make([]workflow.Future, 0, len(channels))
	for _, channel := range channels {
		futures = append(futures, workflow.ExecuteActivity(ctx, notificationactivities.DeliverActivityName,
			notificationactivities.DeliverInput{Channel: channel, Notice: input.Notice}))
	}

	result := &NotificationResult{}
	for i, future := range futures {
		if err := future.Get(ctx, nil); err != nil {
			logger.Error("notification delivery failed", withTraceID(input.TraceID, "orderId", orderID, "channel", channels[i], "error", err)...)
			result.Failed = append(result.Failed, channels[i])
			continue
		}
		result.Delivered = append(result.Delivered, channels[i])
	}
	logger.Info("NotificationWorkflow completed", withTraceID(input.TraceID, "orderId", orderID,
		"delivered", len(result.Delivered), "failed", len(result.Failed))...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
