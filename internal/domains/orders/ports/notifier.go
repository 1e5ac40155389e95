package ports

import (
	"context"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
)

// Notifier is told about every newly recorded order. Implementations must not block.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *domain.Order)
}
