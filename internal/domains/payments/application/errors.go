package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/sundus-book-orders/internal/domains/payments/domain"
)

var (
	// ErrInvalidInput signals a payment request that failed validation or verification.
	ErrInvalidInput = errors.New("invalid payment input")
	// ErrSecretNotConfigured means signatures cannot be checked at all.
	ErrSecretNotConfigured = errors.New("payment key secret not configured")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMissingPaymentDetails),
		errors.Is(err, domain.ErrInvalidSignature):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
