package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "INR"

// UnknownBook labels gateway orders created without a book name.
const UnknownBook = "Unknown"

var (
	ErrInvalidAmount         = errors.New("valid amount required")
	ErrMissingPaymentDetails = errors.New("missing payment details")
	ErrInvalidSignature      = errors.New("invalid signature")
)

// Intent is a request for a gateway order before the customer pays.
type Intent struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Confirmation carries the identifiers the checkout returns after payment.
type Confirmation struct {
	OrderID   string
	PaymentID string
	Signature string
}

// NewIntent converts a major-unit amount into a gateway intent.
func NewIntent(amount float64, bookName, currency string, now time.Time) (*Intent, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(bookName) == "" {
		bookName = UnknownBook
	}
	if strings.TrimSpace(currency) == "" {
		currency = DefaultCurrency
	}
	return &Intent{
		Amount:   MinorUnits(amount),
		Currency: currency,
		Receipt:  Receipt(now),
		Notes:    map[string]string{"book": bookName},
	}, nil
}

// MinorUnits returns amount × 100 rounded to the nearest integer.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Receipt renders the receipt reference for a gateway order created at now.
func Receipt(now time.Time) string {
	return "receipt_" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Validate rejects confirmations with any identifier missing.
func (c Confirmation) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" || strings.TrimSpace(c.PaymentID) == "" || strings.TrimSpace(c.Signature) == "" {
		return ErrMissingPaymentDetails
	}
	return nil
}
