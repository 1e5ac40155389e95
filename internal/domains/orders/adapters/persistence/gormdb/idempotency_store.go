package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists payment reservations next to the orders table.
// The DB must be opened with TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

// PaymentKeyRecord maps a reservation to the payment_idempotency table.
type PaymentKeyRecord struct {
	Key         string    `gorm:"primaryKey;column:payment_key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id;index"`
	Completed   bool      `gorm:"column:completed;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (PaymentKeyRecord) TableName() string { return "payment_idempotency" }

func (s *IdempotencyStore) Reserve(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	row := PaymentKeyRecord{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		Completed:   record.Completed,
		CreatedAt:   record.CreatedAt,
	}
	err := s.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		saved := record
		return &saved, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	var existing PaymentKeyRecord
	if err := s.db.WithContext(ctx).First(&existing, "payment_key = ?", record.Key).Error; err != nil {
		return nil, err
	}
	stored := &ports.IdempotencyRecord{
		Key:         existing.Key,
		RequestHash: existing.RequestHash,
		OrderID:     existing.OrderID,
		Completed:   existing.Completed,
		CreatedAt:   existing.CreatedAt,
	}
	if existing.RequestHash != record.RequestHash {
		return stored, ports.ErrIdempotencyConflict
	}
	return stored, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, orderID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Model(&PaymentKeyRecord{}).
		Where("payment_key = ? AND order_id = ?", key, orderID).
		Update("completed", true).Error
}

func (s *IdempotencyStore) Release(ctx context.Context, key string, orderID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&PaymentKeyRecord{}, "payment_key = ? AND order_id = ?", key, orderID).Error
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("payment key store database not configured")
	}
	return nil
}
