// Package gormdb persists orders in a relational database through GORM. Both the
// PostgreSQL and MySQL dialects are supported.
package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders using GORM. Caller manages DB lifecycle and schema.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OrderRecord maps the order aggregate to the orders table.
type OrderRecord struct {
	ID        int64   `gorm:"primaryKey;autoIncrement:false;column:id"`
	Name      string  `gorm:"column:name;size:255;index"`
	Phone     string  `gorm:"column:phone;size:32;index"`
	Mobile    string  `gorm:"column:mobile;size:32"`
	Email     *string `gorm:"column:email;size:255"`
	Address   string  `gorm:"column:address;type:text"`
	City      *string `gorm:"column:city;size:128"`
	Pincode   *string `gorm:"column:pincode;size:16"`
	Book      string  `gorm:"column:book;size:255"`
	Payment   string  `gorm:"column:payment;size:16"`
	Price     float64 `gorm:"column:price"`
	PaymentID *string `gorm:"column:payment_id;size:64;index"`
	Status    string  `gorm:"column:status;size:32;index"`
	CreatedAt string  `gorm:"column:created_at;size:32"`
}

func (OrderRecord) TableName() string { return "orders" }

func (r *Repository) Append(ctx context.Context, order *domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	record := toRecord(order)
	return r.db.WithContext(ctx).Create(&record).Error
}

// List returns orders in creation order.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []OrderRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.get(r.db.WithContext(ctx), id)
}

// UpdateStatus loads and writes inside one transaction so a missing row is told apart
// from an update that changed nothing.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var updated *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := r.get(tx, id)
		if err != nil {
			return err
		}
		if err := order.UpdateStatus(status); err != nil {
			return err
		}
		if err := tx.Model(&OrderRecord{}).Where("id = ?", id).Update("status", string(order.Status)).Error; err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&OrderRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) MaxID(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var maxID *int64
	if err := r.db.WithContext(ctx).Model(&OrderRecord{}).Select("MAX(id)").Scan(&maxID).Error; err != nil {
		return 0, err
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}

func (r *Repository) get(db *gorm.DB, id int64) (*domain.Order, error) {
	var record OrderRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("order repository database not configured")
	}
	return nil
}

func toRecord(order *domain.Order) OrderRecord {
	rec := OrderRecord{
		ID:        order.ID,
		Name:      order.Name,
		Phone:     order.Phone,
		Mobile:    order.Mobile,
		Email:     order.Email,
		Address:   order.Address,
		City:      order.City,
		Pincode:   order.Pincode,
		Book:      order.Book,
		Payment:   string(order.Payment),
		Price:     order.Price,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	if order.PaymentID != "" {
		paymentID := order.PaymentID
		rec.PaymentID = &paymentID
	}
	return rec
}

func (r OrderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Mobile:    r.Mobile,
		Email:     r.Email,
		Address:   r.Address,
		City:      r.City,
		Pincode:   r.Pincode,
		Book:      r.Book,
		Payment:   domain.Payment(r.Payment),
		Price:     r.Price,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
	}
	if r.PaymentID != nil {
		order.PaymentID = *r.PaymentID
	}
	return order
}
