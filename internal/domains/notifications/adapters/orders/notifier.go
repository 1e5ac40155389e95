// Package orders connects the orders bounded context to notification dispatch.
package orders

import (
	"context"

	notificationdomain "github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
	notificationports "github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
	orderdomain "github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	orderports "github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

// Notifier implements the orders notifier port on top of a dispatcher.
type Notifier struct {
	dispatcher notificationports.Dispatcher
}

func NewNotifier(dispatcher notificationports.Dispatcher) *Notifier {
	return &Notifier{dispatcher: dispatcher}
}

func (n *Notifier) OrderPlaced(ctx context.Context, order *orderdomain.Order) {
	if n == nil || n.dispatcher == nil || order == nil {
		return
	}
	n.dispatcher.Dispatch(ctx, ToNotice(order))
}

// ToNotice snapshots the fields the notification channels render.
func ToNotice(order *orderdomain.Order) notificationdomain.OrderNotice {
	notice := notificationdomain.OrderNotice{
		ID:      order.ID,
		Name:    order.Name,
		Phone:   order.ContactPhone(),
		Address: order.Address,
		Book:    order.Book,
		Payment: string(order.Payment),
		Price:   order.Price,
		Status:  string(order.Status),
	}
	if order.Email != nil {
		notice.Email = *order.Email
	}
	if order.City != nil {
		notice.City = *order.City
	}
	if order.Pincode != nil {
		notice.Pincode = *order.Pincode
	}
	return notice
}

var _ orderports.Notifier = (*Notifier)(nil)
