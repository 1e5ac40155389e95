package ports

import (
	"context"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
)

// Channel names one delivery of an order event.
type Channel string

const (
	ChannelAdminEmail    Channel = "admin_email"
	ChannelCustomerEmail Channel = "customer_email"
	ChannelWhatsApp      Channel = "whatsapp"
)

// Deliverer performs exactly one delivery attempt on a channel.
type Deliverer interface {
	Deliver(ctx context.Context, channel Channel, notice domain.OrderNotice) error
}

// Dispatcher fans an order event out to every channel without blocking the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, notice domain.OrderNotice)
}
