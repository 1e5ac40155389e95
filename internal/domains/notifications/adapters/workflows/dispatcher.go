package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
	notificationworkflows "github.com/Apurer/sundus-book-orders/internal/platform/temporal/workflows/notifications"
)

const startTimeout = 10 * time.Second

type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalDispatcher starts the notification workflow on a Temporal cluster.
// Starting happens in the background. When the start fails, the fallback dispatcher runs instead.
type TemporalDispatcher struct {
	client    workflowStarter
	taskQueue string
	fallback  ports.Dispatcher
	logger    *slog.Logger
	wg        sync.WaitGroup
}

func NewTemporalDispatcher(c client.Client, fallback ports.Dispatcher, logger *slog.Logger) *TemporalDispatcher {
	return &TemporalDispatcher{
		client:    c,
		taskQueue: notificationworkflows.NotificationTaskQueue,
		fallback:  fallback,
		logger:    logger,
	}
}

func (d *TemporalDispatcher) Dispatch(ctx context.Context, notice domain.OrderNotice) {
	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.start(detached, notice); err != nil {
			d.logError(detached, notice, err)
			if d.fallback != nil {
				d.fallback.Dispatch(detached, notice)
			}
		}
	}()
}

type waiter interface {
	Wait(ctx context.Context) error
}

// Wait blocks until pending workflow starts finish and the fallback has drained the
// notices handed to it, or ctx ends.
func (d *TemporalDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if fallback, ok := d.fallback.(waiter); ok {
		return fallback.Wait(ctx)
	}
	return nil
}

func (d *TemporalDispatcher) start(ctx context.Context, notice domain.OrderNotice) error {
	if d.client == nil {
		return errors.New("temporal notification dispatcher not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	traceID := workflowTraceID(ctx)
	_, err := d.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        buildNotificationWorkflowID(notice.ID),
		TaskQueue: d.taskQueue,
	}, notificationworkflows.NotificationWorkflowName, notificationworkflows.NotificationWorkflowInput{
		Notice:  notice,
		TraceID: traceID,
	})
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		// The order was announced already.
		return nil
	}
	return err
}

func (d *TemporalDispatcher) logError(ctx context.Context, notice domain.OrderNotice, err error) {
	if d.logger == nil {
		return
	}
	d.logger.LogAttrs(ctx, slog.LevelError, "failed to start notification workflow",
		slog.Int64("order.id", notice.ID), slog.String("error", err.Error()))
}

// buildNotificationWorkflowID is derived from the order id so an order is announced once.
func buildNotificationWorkflowID(orderID int64) string {
	return fmt.Sprintf("order-notification-%d", orderID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

var _ ports.Dispatcher = (*TemporalDispatcher)(nil)
