package domain

import (
	"encoding/json"

	"github.com/Apurer/sundus-book-orders/internal/shared/lenient"
)

// storedOrder mirrors Order with loosely typed fields. Older order files hold
// whatever the client posted, such as "price":"450" or "pincode":560001.
type storedOrder struct {
	ID        int64          `json:"id"`
	Name      lenient.String `json:"name"`
	Phone     lenient.String `json:"phone"`
	Mobile    lenient.String `json:"mobile"`
	Email     lenient.String `json:"email"`
	Address   lenient.String `json:"address"`
	City      lenient.String `json:"city"`
	Pincode   lenient.String `json:"pincode"`
	Book      lenient.String `json:"book"`
	Payment   Payment        `json:"payment"`
	Price     lenient.Number `json:"price"`
	PaymentID lenient.String `json:"payment_id"`
	Status    Status         `json:"status"`
	CreatedAt string         `json:"createdAt"`
}

// UnmarshalJSON reads stored rows leniently. Orders are always written with typed fields.
func (o *Order) UnmarshalJSON(data []byte) error {
	var row storedOrder
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	price := float64(DefaultPrice)
	if row.Price.Value != nil && *row.Price.Value != 0 {
		price = *row.Price.Value
	}
	*o = Order{
		ID:        row.ID,
		Name:      string(row.Name),
		Phone:     string(row.Phone),
		Mobile:    string(row.Mobile),
		Email:     optional(string(row.Email)),
		Address:   string(row.Address),
		City:      optional(string(row.City)),
		Pincode:   optional(string(row.Pincode)),
		Book:      string(row.Book),
		Payment:   row.Payment,
		Price:     price,
		PaymentID: string(row.PaymentID),
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}
	return nil
}
