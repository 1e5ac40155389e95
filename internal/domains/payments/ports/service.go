package ports

import (
	"context"

	"github.com/Apurer/sundus-book-orders/internal/domains/payments/domain"
)

// IntentInput carries the /create-order payload.
type IntentInput struct {
	Amount   float64
	BookName string
}

// Service exposes payment use cases to adapters.
type Service interface {
	CreateIntent(ctx context.Context, input IntentInput) (*GatewayOrder, error)
	VerifyPayment(ctx context.Context, confirmation domain.Confirmation) error
}
