package notifications

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
)

// DeliverActivityName performs one channel delivery for an order notice.
const DeliverActivityName = "notifications.activities.Deliver"

// DeliverInput names the channel and carries the rendered order snapshot.
type DeliverInput struct {
	Channel ports.Channel
	Notice  domain.OrderNotice
}

// Activities groups activities that deliver order notifications.
type Activities struct {
	deliverer ports.Deliverer
}

func NewActivities(deliverer ports.Deliverer) *Activities {
	return &Activities{deliverer: deliverer}
}

// Deliver sends one notification. A disabled channel completes without error.
func (a *Activities) Deliver(ctx context.Context, input DeliverInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.deliverer == nil {
		logger.Error("notification activity not initialized", "orderId", input.Notice.ID)
		return errors.New("notification activity not initialized")
	}
	logger.Info("Deliver activity started", "orderId", input.Notice.ID, "channel", input.Channel)
	err := a.deliverer.Deliver(ctx, input.Channel, input.Notice)
	if errors.Is(err, ports.ErrChannelDisabled) {
		logger.Info("notification channel disabled; skipping", "orderId", input.Notice.ID, "channel", input.Channel)
		return nil
	}
	if err != nil {
		logger.Error("Deliver activity failed", "orderId", input.Notice.ID, "channel", input.Channel, "error", err)
		return err
	}
	logger.Info("Deliver activity completed", "orderId", input.Notice.ID, "channel", input.Channel)
	return nil
}
