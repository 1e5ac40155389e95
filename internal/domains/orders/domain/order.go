package domain

import (
	"errors"
	"strings"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
	// StatusPaid is assigned to online orders at creation. It is not accepted by UpdateStatus.
	StatusPaid Status = "Paid"
)

// Payment identifies how an order is settled.
type Payment string

const (
	PaymentCOD    Payment = "COD"
	PaymentOnline Payment = "ONLINE"
)

// DefaultPrice applies when the client does not supply a price.
const DefaultPrice = 299

var (
	ErrValidation       = errors.New("required fields missing")
	ErrMissingName      = errors.New("name is required")
	ErrMissingPhone     = errors.New("phone or mobile is required")
	ErrMissingAddress   = errors.New("address is required")
	ErrMissingBook      = errors.New("book is required")
	ErrMissingPaymentID = errors.New("payment_id is required")
	ErrInvalidStatus    = errors.New("invalid status")
)

// Order is the persisted purchase record. JSON field names are the on-disk format.
type Order struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Mobile    string  `json:"mobile"`
	Email     *string `json:"email"`
	Address   string  `json:"address"`
	City      *string `json:"city"`
	Pincode   *string `json:"pincode"`
	Book      string  `json:"book"`
	Payment   Payment `json:"payment"`
	Price     float64 `json:"price"`
	PaymentID string  `json:"payment_id,omitempty"`
	Status    Status  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

// OrderInput carries raw client fields before normalization.
type OrderInput struct {
	Name      string
	Phone     string
	Mobile    string
	Email     string
	Address   string
	City      string
	Pincode   string
	Book      string
	Price     *float64
	PaymentID string
}

// NewCODOrder validates input and builds a Pending cash-on-delivery order.
func NewCODOrder(id int64, in OrderInput, now time.Time) (*Order, error) {
	if err := validateCommon(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Book) == "" {
		return nil, invalid(ErrMissingBook)
	}
	order := build(id, in, now)
	order.Payment = PaymentCOD
	order.Status = StatusPending
	return order, nil
}

// NewOnlineOrder validates input and builds a Paid order for a completed gateway payment.
func NewOnlineOrder(id int64, in OrderInput, now time.Time) (*Order, error) {
	if strings.TrimSpace(in.PaymentID) == "" {
		return nil, invalid(ErrMissingPaymentID)
	}
	if err := validateCommon(in); err != nil {
		return nil, err
	}
	order := build(id, in, now)
	order.Payment = PaymentOnline
	order.PaymentID = in.PaymentID
	order.Status = StatusPaid
	return order, nil
}

// UpdateStatus accepts only the admin-settable statuses.
func (o *Order) UpdateStatus(status Status) error {
	if !IsUpdatableStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

// ContactPhone returns phone, falling back to mobile for legacy records.
func (o *Order) ContactPhone() string {
	if o.Phone != "" {
		return o.Phone
	}
	return o.Mobile
}

// HasEmail reports whether a customer address is on file.
func (o *Order) HasEmail() bool {
	return o.Email != nil && *o.Email != ""
}

// Clone returns a deep copy so callers never share pointer fields.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Email = cloneString(o.Email)
	c.City = cloneString(o.City)
	c.Pincode = cloneString(o.Pincode)
	return &c
}

// IsUpdatableStatus reports whether status belongs to the update vocabulary.
func IsUpdatableStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// FormatTimestamp renders t the way createdAt is stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func validateCommon(in OrderInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid(ErrMissingName)
	}
	if strings.TrimSpace(in.Phone) == "" && strings.TrimSpace(in.Mobile) == "" {
		return invalid(ErrMissingPhone)
	}
	if strings.TrimSpace(in.Address) == "" {
		return invalid(ErrMissingAddress)
	}
	return nil
}

func build(id int64, in OrderInput, now time.Time) *Order {
	phone, mobile := in.Phone, in.Mobile
	if phone == "" {
		phone = mobile
	}
	if mobile == "" {
		mobile = phone
	}
	price := float64(DefaultPrice)
	if in.Price != nil && *in.Price != 0 {
		price = *in.Price
	}
	return &Order{
		ID:        id,
		Name:      in.Name,
		Phone:     phone,
		Mobile:    mobile,
		Email:     optional(in.Email),
		Address:   in.Address,
		City:      optional(in.City),
		Pincode:   optional(in.Pincode),
		Book:      in.Book,
		Price:     price,
		CreatedAt: FormatTimestamp(now),
	}
}

func invalid(err error) error {
	return errors.Join(ErrValidation, err)
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v := value
	return &v
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
