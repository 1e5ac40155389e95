package ports

import (
	"context"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
)

// SearchCriteria filters are optional and combined with AND.
type SearchCriteria struct {
	Name  string
	Email string
	Phone string
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceCODOrder(ctx context.Context, input domain.OrderInput) (*domain.Order, error)
	RecordPayment(ctx context.Context, input domain.OrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	SearchOrders(ctx context.Context, criteria SearchCriteria) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}
