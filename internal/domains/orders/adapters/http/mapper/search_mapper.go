package mapper

import "github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"

// ToSearchCriteria drops absent filters.
func ToSearchCriteria(query SearchQuery) ports.SearchCriteria {
	return ports.SearchCriteria{
		Name:  deref(query.Name),
		Email: deref(query.Email),
		Phone: deref(query.Phone),
	}
}
