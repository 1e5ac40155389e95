package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/sundus-book-orders/internal/domains/payments/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/payments/ports"
)

// Service creates gateway orders and verifies checkout signatures.
type Service struct {
	gateway  ports.Gateway
	secret   string
	currency string
	now      func() time.Time
}

type Option func(*Service)

// WithCurrency sets the currency of created gateway orders.
func WithCurrency(currency string) Option {
	return func(s *Service) {
		s.currency = currency
	}
}

// WithClock overrides the time source used for receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the gateway and the key secret used for signatures.
func NewService(gateway ports.Gateway, secret string, opts ...Option) *Service {
	s := &Service{
		gateway:  gateway,
		secret:   secret,
		currency: domain.DefaultCurrency,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateIntent(ctx context.Context, input ports.IntentInput) (*ports.GatewayOrder, error) {
	intent, err := domain.NewIntent(input.Amount, input.BookName, s.currency, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not configured", ports.ErrGateway)
	}
	order, err := s.gateway.CreateOrder(ctx, ports.GatewayOrderRequest{
		Amount:   intent.Amount,
		Currency: intent.Currency,
		Receipt:  intent.Receipt,
		Notes:    intent.Notes,
	})
	if err != nil {
		if errors.Is(err, ports.ErrGateway) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ports.ErrGateway, err)
	}
	return order, nil
}

// VerifyPayment returns nil when the signature matches.
func (s *Service) VerifyPayment(_ context.Context, confirmation domain.Confirmation) error {
	if err := confirmation.Validate(); err != nil {
		return mapError(err)
	}
	if s.secret == "" {
		return ErrSecretNotConfigured
	}
	if !domain.VerifySignature(confirmation.OrderID, confirmation.PaymentID, confirmation.Signature, s.secret) {
		return mapError(domain.ErrInvalidSignature)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
