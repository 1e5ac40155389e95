package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the key was already used with a different payload.
var ErrIdempotencyConflict = errors.New("idempotency key reused with different payload")

// IdempotencyRecord ties a gateway payment id to the order it produced. A record is
// pending from Reserve until Complete confirms the order was persisted.
type IdempotencyRecord struct {
	Key         string    `json:"key"`
	RequestHash string    `json:"requestHash"`
	OrderID     int64     `json:"orderId"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IdempotencyStore reserves payment ids so a completed payment is recorded once.
type IdempotencyStore interface {
	// Reserve stores record when the key is unused and returns it. When the key exists,
	// the stored record is returned, together with ErrIdempotencyConflict if the hash differs.
	Reserve(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
	// Complete marks the reservation held by orderID as persisted.
	Complete(ctx context.Context, key string, orderID int64) error
	// Release drops the reservation only while it is still held by orderID.
	Release(ctx context.Context, key string, orderID int64) error
}
