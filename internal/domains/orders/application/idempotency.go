package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
)

type normalizedPayment struct {
	PaymentID string   `json:"payment_id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Mobile    string   `json:"mobile"`
	Email     string   `json:"email"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	Pincode   string   `json:"pincode"`
	Book      string   `json:"book"`
	Price     *float64 `json:"price"`
}

// FingerprintPayment builds a deterministic hash of a payment-success payload.
func FingerprintPayment(input domain.OrderInput) (string, error) {
	payload, err := json.Marshal(normalizedPayment{
		PaymentID: input.PaymentID,
		Name:      input.Name,
		Phone:     input.Phone,
		Mobile:    input.Mobile,
		Email:     input.Email,
		Address:   input.Address,
		City:      input.City,
		Pincode:   input.Pincode,
		Book:      input.Book,
		Price:     input.Price,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
