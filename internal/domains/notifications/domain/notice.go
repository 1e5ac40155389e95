package domain

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
	"time"
)

// DefaultBrand signs the email footers.
const DefaultBrand = "Sundus Books"

// OrderNotice is the order snapshot every channel renders. It travels as a workflow payload,
// so all fields are plain values. Empty optional fields mean absent.
type OrderNotice struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email,omitempty"`
	Address string  `json:"address"`
	City    string  `json:"city,omitempty"`
	Pincode string  `json:"pincode,omitempty"`
	Book    string  `json:"book"`
	Payment string  `json:"payment"`
	Price   float64 `json:"price"`
	Status  string  `json:"status"`
}

// HasEmail reports whether the customer left an address for a confirmation.
func (n OrderNotice) HasEmail() bool { return n.Email != "" }

// Rendered is a message ready for a channel.
type Rendered struct {
	Subject string
	Body    string
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = map[string]any{"price": FormatPrice}

var (
	adminTemplate    = htmltemplate.Must(htmltemplate.New("admin.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/admin.html.tmpl"))
	customerTemplate = htmltemplate.Must(htmltemplate.New("customer.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/customer.html.tmpl"))
	whatsAppTemplate = texttemplate.Must(texttemplate.New("whatsapp.txt.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/whatsapp.txt.tmpl"))
)

// Renderer builds channel messages for an order.
type Renderer struct {
	Brand string
	Now   func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{Brand: DefaultBrand, Now: time.Now}
}

type view struct {
	OrderNotice
	Brand string
	Year  int
}

// AdminEmail renders the staff alert sent for every order.
func (r *Renderer) AdminEmail(n OrderNotice) (Rendered, error) {
	var buf bytes.Buffer
	if err := adminTemplate.Execute(&buf, r.view(n)); err != nil {
		return Rendered{}, fmt.Errorf("render admin email: %w", err)
	}
	return Rendered{
		Subject: fmt.Sprintf("🔔 NEW ORDER [ID: %d] – %s - %s", n.ID, n.Payment, n.Book),
		Body:    buf.String(),
	}, nil
}

// CustomerEmail renders the confirmation sent when the order has an email.
func (r *Renderer) CustomerEmail(n OrderNotice) (Rendered, error) {
	var buf bytes.Buffer
	if err := customerTemplate.Execute(&buf, r.view(n)); err != nil {
		return Rendered{}, fmt.Errorf("render customer email: %w", err)
	}
	return Rendered{
		Subject: fmt.Sprintf("✅ Order Confirmation [ID: %d] - %s", n.ID, n.Book),
		Body:    buf.String(),
	}, nil
}

// WhatsApp renders the plain-text staff message.
func (r *Renderer) WhatsApp(n OrderNotice) (Rendered, error) {
	var buf bytes.Buffer
	if err := whatsAppTemplate.Execute(&buf, r.view(n)); err != nil {
		return Rendered{}, fmt.Errorf("render whatsapp message: %w", err)
	}
	return Rendered{Body: buf.String()}, nil
}

func (r *Renderer) view(n OrderNotice) view {
	brand := r.Brand
	if brand == "" {
		brand = DefaultBrand
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return view{OrderNotice: n, Brand: brand, Year: now().Year()}
}

// FormatPrice prints a price without trailing zeros, so 299 stays "299" and 120.5 stays "120.5".
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
