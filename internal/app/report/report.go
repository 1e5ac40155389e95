// Package report renders stored orders as a plain-text table for operators.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

// Filter narrows the rows printed. Zero values match everything.
type Filter struct {
	Status  domain.Status
	Payment domain.Payment
}

func (f Filter) matches(order *domain.Order) bool {
	if f.Status != "" && !strings.EqualFold(string(order.Status), string(f.Status)) {
		return false
	}
	if f.Payment != "" && !strings.EqualFold(string(order.Payment), string(f.Payment)) {
		return false
	}
	return true
}

// Summary totals the printed rows.
type Summary struct {
	Count   int
	Revenue float64
}

// Print loads every order from repo and writes the rows matching filter to w.
func Print(ctx context.Context, w io.Writer, repo ports.Repository, filter Filter) (Summary, error) {
	orders, err := repo.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list orders: %w", err)
	}
	return Write(w, orders, filter)
}

// Write renders orders matching filter as a table followed by a totals footer.
func Write(w io.Writer, orders []*domain.Order, filter Filter) (Summary, error) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Created", "Name", "Phone", "Book", "Price", "Payment", "Status")

	var summary Summary
	for _, order := range orders {
		if !filter.matches(order) {
			continue
		}
		if err := table.Append([]string{
			strconv.FormatInt(order.ID, 10),
			order.CreatedAt,
			order.Name,
			order.ContactPhone(),
			order.Book,
			formatPrice(order.Price),
			string(order.Payment),
			string(order.Status),
		}); err != nil {
			return Summary{}, err
		}
		summary.Count++
		summary.Revenue += order.Price
	}
	table.Footer("", "", "", "", "Total", formatPrice(summary.Revenue), strconv.Itoa(summary.Count), "")
	if err := table.Render(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}
