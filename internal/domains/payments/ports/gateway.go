package ports

import (
	"context"
	"errors"
)

// ErrGateway wraps failures of the payment provider call.
var ErrGateway = errors.New("payment gateway error")

// GatewayOrderRequest is the provider-side order to create, amount in minor units.
type GatewayOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// GatewayOrder is the provider's order record. Fields holds the full provider payload.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
	Fields   map[string]any
}

// Gateway creates orders with the payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
}
