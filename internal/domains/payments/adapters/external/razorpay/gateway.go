package razorpay

import (
	"context"
	"errors"
	"fmt"

	rzpclient "github.com/Apurer/sundus-book-orders/internal/clients/http/razorpay"
	"github.com/Apurer/sundus-book-orders/internal/domains/payments/ports"
)

// Gateway implements the outbound payment gateway port on the Razorpay client.
type Gateway struct {
	client *rzpclient.Client
}

func NewGateway(client *rzpclient.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) CreateOrder(ctx context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("%w: razorpay gateway not configured", ports.ErrGateway)
	}
	order, err := g.client.CreateOrder(ctx, rzpclient.OrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrGateway, err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrGateway, errors.New("empty order"))
	}
	return &ports.GatewayOrder{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
		Fields:   order.Raw,
	}, nil
}

var _ ports.Gateway = (*Gateway)(nil)
