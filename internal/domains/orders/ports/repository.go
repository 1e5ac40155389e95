package ports

import (
	"context"
	"errors"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists the order collection.
type Repository interface {
	Append(ctx context.Context, order *domain.Order) error
	List(ctx context.Context) ([]*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	// MaxID returns the highest persisted id, or zero when the store is empty.
	MaxID(ctx context.Context) (int64, error)
}
