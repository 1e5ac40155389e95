package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrPaymentConflict signals a payment id was already recorded with different details.
	ErrPaymentConflict = errors.New("payment already recorded with different details")
	// ErrPaymentPending signals another request is still recording the same payment.
	ErrPaymentPending = errors.New("payment is still being recorded")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
