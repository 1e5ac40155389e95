package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter that keeps insertion order.
type Repository struct {
	mu     sync.RWMutex
	orders []*domain.Order
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Append(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(order.ID) >= 0 {
		return fmt.Errorf("order %d already exists", order.ID)
	}
	r.orders = append(r.orders, order.Clone())
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, order.Clone())
	}
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	return r.orders[idx].Clone(), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	if err := r.orders[idx].UpdateStatus(status); err != nil {
		return nil, err
	}
	return r.orders[idx].Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return ports.ErrNotFound
	}
	r.orders = append(r.orders[:idx], r.orders[idx+1:]...)
	return nil
}

func (r *Repository) MaxID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var maxID int64
	for _, order := range r.orders {
		if order.ID > maxID {
			maxID = order.ID
		}
	}
	return maxID, nil
}

func (r *Repository) indexOf(id int64) int {
	for i, order := range r.orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}
