package mapper

import (
	"strings"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	"github.com/Apurer/sundus-book-orders/internal/shared/lenient"
)

// OrderRequest captures inbound payloads for /order-cod and /payment-success.
// Contact fields accept numbers as well as strings.
type OrderRequest struct {
	PaymentID lenient.String `json:"payment_id"`
	Name      lenient.String `json:"name"`
	Phone     lenient.String `json:"phone"`
	Mobile    lenient.String `json:"mobile"`
	Email     lenient.String `json:"email"`
	Address   lenient.String `json:"address"`
	City      lenient.String `json:"city"`
	Pincode   lenient.String `json:"pincode"`
	Book      lenient.String `json:"book"`
	Price     Price          `json:"price"`
}

// StatusRequest is the body of PUT /orders/:id.
type StatusRequest struct {
	Status string `json:"status"`
}

// SearchQuery binds the optional /search-orders filters.
type SearchQuery struct {
	Name  *string `form:"name"`
	Email *string `form:"email"`
	Phone *string `form:"phone"`
}

// Price accepts a JSON number or a numeric string. Anything else reads as unset.
type Price = lenient.Number

// ToOrderInput converts a transport payload into the builder input.
func ToOrderInput(req OrderRequest) domain.OrderInput {
	return domain.OrderInput{
		Name:      trim(req.Name),
		Phone:     trim(req.Phone),
		Mobile:    trim(req.Mobile),
		Email:     trim(req.Email),
		Address:   string(req.Address),
		City:      trim(req.City),
		Pincode:   trim(req.Pincode),
		Book:      string(req.Book),
		Price:     req.Price.Value,
		PaymentID: trim(req.PaymentID),
	}
}

func ToDomainStatus(req StatusRequest) domain.Status {
	return domain.Status(req.Status)
}

func trim(value lenient.String) string {
	return strings.TrimSpace(string(value))
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
