// Package file stores the order collection as a single pretty-printed JSON array.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// ErrCorruptStore is returned when the backing file does not hold a JSON array of orders.
var ErrCorruptStore = errors.New("order store is corrupt")

// Repository rewrites the whole collection on every mutation. Mutations are serialized
// so concurrent requests cannot lose each other's writes.
type Repository struct {
	mu   sync.RWMutex
	fs   afero.Fs
	path string
}

// NewRepository stores orders at path on the given filesystem.
func NewRepository(fsys afero.Fs, path string) *Repository {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Repository{fs: fsys, path: path}
}

// Path returns the backing file location.
func (r *Repository) Path() string { return r.path }

// LoadAll reads the collection. A missing file means no orders yet.
func (r *Repository) LoadAll(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.load()
}

// SaveAll replaces the collection.
func (r *Repository) SaveAll(_ context.Context, orders []*domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(orders)
}

func (r *Repository) Append(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	return r.mutate(func(orders []*domain.Order) ([]*domain.Order, error) {
		if indexOf(orders, order.ID) >= 0 {
			return nil, fmt.Errorf("order %d already exists", order.ID)
		}
		return append(orders, order.Clone()), nil
	})
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.LoadAll(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(orders, id)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	return orders[idx], nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, status domain.Status) (*domain.Order, error) {
	var updated *domain.Order
	err := r.mutate(func(orders []*domain.Order) ([]*domain.Order, error) {
		idx := indexOf(orders, id)
		if idx < 0 {
			return nil, ports.ErrNotFound
		}
		if err := orders[idx].UpdateStatus(status); err != nil {
			return nil, err
		}
		updated = orders[idx].Clone()
		return orders, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	return r.mutate(func(orders []*domain.Order) ([]*domain.Order, error) {
		idx := indexOf(orders, id)
		if idx < 0 {
			return nil, ports.ErrNotFound
		}
		return append(orders[:idx], orders[idx+1:]...), nil
	})
}

func (r *Repository) MaxID(ctx context.Context) (int64, error) {
	orders, err := r.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, order := range orders {
		if order.ID > maxID {
			maxID = order.ID
		}
	}
	return maxID, nil
}

// mutate runs load → fn → save under the write lock. Nothing is written when fn fails.
func (r *Repository) mutate(fn func([]*domain.Order) ([]*domain.Order, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders, err := r.load()
	if err != nil {
		return err
	}
	next, err := fn(orders)
	if err != nil {
		return err
	}
	return r.save(next)
}

func (r *Repository) load() ([]*domain.Order, error) {
	raw, err := afero.ReadFile(r.fs, r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*domain.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read order store %s: %w", r.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []*domain.Order{}, nil
	}
	var orders []*domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptStore, r.path, err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// save writes to a sibling temp file and renames it over the store.
func (r *Repository) save(orders []*domain.Order) error {
	if orders == nil {
		orders = []*domain.Order{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(orders); err != nil {
		return fmt.Errorf("encode order store: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create order store dir %s: %w", dir, err)
	}
	tmp, err := afero.TempFile(r.fs, dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp order store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("write order store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("sync order store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("close order store: %w", err)
	}
	if err := r.fs.Rename(tmpName, r.path); err != nil {
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("replace order store %s: %w", r.path, err)
	}
	return nil
}

func indexOf(orders []*domain.Order, id int64) int {
	for i, order := range orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}
