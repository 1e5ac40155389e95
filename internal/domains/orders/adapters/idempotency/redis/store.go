// Package redis keeps payment idempotency records in Redis so several API instances share them.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*Store)(nil)

// DefaultTTL bounds how long a payment id stays reserved.
const DefaultTTL = 7 * 24 * time.Hour

// Both scripts act only while the stored record is still held by ARGV[1].
var (
	completeScript = goredis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return 0 end
if cjson.decode(raw).orderId ~= tonumber(ARGV[1]) then return 0 end
local done = string.gsub(raw, '"completed":false', '"completed":true', 1)
redis.call('SET', KEYS[1], done, 'KEEPTTL')
return 1`)
	releaseScript = goredis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return 0 end
if cjson.decode(raw).orderId ~= tonumber(ARGV[1]) then return 0 end
return redis.call('DEL', KEYS[1])`)
)

// Store reserves keys with SETNX so the first writer wins across processes.
type Store struct {
	client      goredis.Cmdable
	serviceName string
	ttl         time.Duration
}

// NewStore wraps a connected client. A non-positive ttl falls back to DefaultTTL.
func NewStore(client goredis.Cmdable, serviceName string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, serviceName: serviceName, ttl: ttl}
}

// Connect dials addr and verifies connectivity.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (s *Store) Reserve(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	key := s.key(record.Key)
	// A reservation can expire between SETNX and GET; one retry covers that window.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, key, payload, s.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis reserve %s: %w", key, err)
		}
		if ok {
			saved := record
			return &saved, nil
		}
		raw, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis load %s: %w", key, err)
		}
		var existing ports.IdempotencyRecord
		if err := json.Unmarshal(raw, &existing); err != nil {
			return nil, fmt.Errorf("redis decode %s: %w", key, err)
		}
		if existing.RequestHash != record.RequestHash {
			return &existing, ports.ErrIdempotencyConflict
		}
		return &existing, nil
	}
	return nil, fmt.Errorf("redis reserve %s: key expired during reservation", key)
}

func (s *Store) Complete(ctx context.Context, key string, orderID int64) error {
	if err := completeScript.Run(ctx, s.client, []string{s.key(key)}, orderID).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis complete %s: %w", s.key(key), err)
	}
	return nil
}

func (s *Store) Release(ctx context.Context, key string, orderID int64) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.key(key)}, orderID).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis release %s: %w", s.key(key), err)
	}
	return nil
}

func (s *Store) key(paymentID string) string {
	return fmt.Sprintf("%s:%s:%s", s.serviceName, "payment", paymentID)
}
