package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
)

// DefaultDeliveryTimeout bounds a single delivery attempt.
const DefaultDeliveryTimeout = 30 * time.Second

// Channels returns the deliveries owed for notice: admin email and WhatsApp always,
// customer email only when an address is on file.
func Channels(notice domain.OrderNotice) []ports.Channel {
	channels := []ports.Channel{ports.ChannelAdminEmail}
	if notice.HasEmail() {
		channels = append(channels, ports.ChannelCustomerEmail)
	}
	return append(channels, ports.ChannelWhatsApp)
}

// InlineDispatcher runs every delivery in its own goroutine, detached from the caller's
// cancellation. Failures are logged and counted, never returned.
type InlineDispatcher struct {
	deliverer ports.Deliverer
	logger    *slog.Logger
	timeout   time.Duration
	delivered metric.Int64Counter
	wg        sync.WaitGroup
}

type DispatcherOption func(*InlineDispatcher)

func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *InlineDispatcher) {
		d.logger = logger
	}
}

func WithMeter(m metric.Meter) DispatcherOption {
	return func(d *InlineDispatcher) {
		if m == nil {
			return
		}
		d.delivered, _ = m.Int64Counter("notifications.deliveries", metric.WithDescription("Notification delivery attempts"))
	}
}

func WithDeliveryTimeout(timeout time.Duration) DispatcherOption {
	return func(d *InlineDispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func NewInlineDispatcher(deliverer ports.Deliverer, opts ...DispatcherOption) *InlineDispatcher {
	d := &InlineDispatcher{deliverer: deliverer, timeout: DefaultDeliveryTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, notice domain.OrderNotice) {
	detached := context.WithoutCancel(ctx)
	for _, channel := range Channels(notice) {
		d.wg.Add(1)
		go func(channel ports.Channel) {
			defer d.wg.Done()
			d.deliver(detached, channel, notice)
		}(channel)
	}
}

// Wait blocks until in-flight deliveries finish or ctx ends.
func (d *InlineDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *InlineDispatcher) deliver(ctx context.Context, channel ports.Channel, notice domain.OrderNotice) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	outcome := "sent"
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			d.log(ctx, slog.LevelError, "notification delivery panicked", channel, notice, slog.Any("panic", r))
		}
		d.record(ctx, channel, outcome)
	}()

	err := d.deliverer.Deliver(ctx, channel, notice)
	switch {
	case err == nil:
		d.log(ctx, slog.LevelInfo, "notification sent", channel, notice)
	case errors.Is(err, ports.ErrChannelDisabled):
		outcome = "skipped"
		d.log(ctx, slog.LevelDebug, "notification channel disabled", channel, notice)
	default:
		outcome = "failed"
		d.log(ctx, slog.LevelError, "notification failed", channel, notice, slog.String("error", err.Error()))
	}
}

func (d *InlineDispatcher) log(ctx context.Context, level slog.Level, msg string, channel ports.Channel, notice domain.OrderNotice, attrs ...slog.Attr) {
	if d.logger == nil {
		return
	}
	attrs = append(attrs, slog.String("channel", string(channel)), slog.Int64("order.id", notice.ID))
	d.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (d *InlineDispatcher) record(ctx context.Context, channel ports.Channel, outcome string) {
	if d.delivered == nil {
		return
	}
	d.delivered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", string(channel)),
		attribute.String("outcome", outcome),
	))
}

var _ ports.Dispatcher = (*InlineDispatcher)(nil)
