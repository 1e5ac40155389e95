package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

// Service orchestrates order intake and admin use cases.
type Service struct {
	repo           ports.Repository
	ids            *domain.Sequence
	notifier       ports.Notifier
	idempotency    ports.IdempotencyStore
	pendingTimeout time.Duration
	now            func() time.Time
}

// DefaultPendingTimeout bounds how long a replay waits for the request that holds the payment.
const DefaultPendingTimeout = 30 * time.Second

const pendingPollInterval = 20 * time.Millisecond

type Option func(*Service)

// WithNotifier registers the collaborator told about new orders.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithIdempotencyStore guards RecordPayment against recording a payment twice.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithPendingTimeout sets how long a replay waits on an in-flight reservation. Reservations
// older than d that never produced an order are treated as abandoned.
func WithPendingTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pendingTimeout = d
		}
	}
}

// WithSequence overrides the id source.
func WithSequence(seq *domain.Sequence) Option {
	return func(s *Service) {
		if seq != nil {
			s.ids = seq
		}
	}
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		ids:            domain.NewSequence(),
		pendingTimeout: DefaultPendingTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SyncSequence raises the id floor to the highest persisted id.
func (s *Service) SyncSequence(ctx context.Context) error {
	maxID, err := s.repo.MaxID(ctx)
	if err != nil {
		return err
	}
	s.ids.Observe(maxID)
	return nil
}

func (s *Service) PlaceCODOrder(ctx context.Context, input domain.OrderInput) (*domain.Order, error) {
	order, err := domain.NewCODOrder(s.ids.Next(), input, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Append(ctx, order); err != nil {
		return nil, err
	}
	s.notify(ctx, order)
	return order, nil
}

// RecordPayment stores an online order for a completed gateway payment. Replaying the
// same payload returns the order recorded the first time.
func (s *Service) RecordPayment(ctx context.Context, input domain.OrderInput) (*domain.Order, error) {
	order, err := domain.NewOnlineOrder(s.ids.Next(), input, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if s.idempotency != nil {
		existing, err := s.reservePayment(ctx, input, order)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}
	if err := s.repo.Append(ctx, order); err != nil {
		if s.idempotency != nil {
			_ = s.idempotency.Release(ctx, input.PaymentID, order.ID)
		}
		return nil, err
	}
	if s.idempotency != nil {
		// Replays find the order by id even when this mark is lost.
		_ = s.idempotency.Complete(ctx, input.PaymentID, order.ID)
	}
	s.notify(ctx, order)
	return order, nil
}

// reservePayment returns the previously recorded order on replay, or nil when order owns the key.
// A replay that finds the key pending waits for the holder to persist its order or give it up.
func (s *Service) reservePayment(ctx context.Context, input domain.OrderInput, order *domain.Order) (*domain.Order, error) {
	hash, err := FingerprintPayment(input)
	if err != nil {
		return nil, err
	}
	record := ports.IdempotencyRecord{
		Key:         input.PaymentID,
		RequestHash: hash,
		OrderID:     order.ID,
		CreatedAt:   s.now(),
	}
	deadline := time.NewTimer(s.pendingTimeout)
	defer deadline.Stop()
	for {
		stored, err := s.idempotency.Reserve(ctx, record)
		if errors.Is(err, ports.ErrIdempotencyConflict) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentConflict, input.PaymentID)
		}
		if err != nil {
			return nil, err
		}
		if stored.OrderID == order.ID {
			return nil, nil
		}
		previous, err := s.repo.GetByID(ctx, stored.OrderID)
		if err == nil {
			return previous, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		// Completed but missing: an admin deleted the order. Pending and stale: the holder died.
		if stored.Completed || s.now().Sub(stored.CreatedAt) >= s.pendingTimeout {
			if err := s.idempotency.Release(ctx, input.PaymentID, stored.OrderID); err != nil {
				return nil, err
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("%w: %s", ErrPaymentPending, input.PaymentID)
		case <-time.After(pendingPollInterval):
		}
	}
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SearchOrders(ctx context.Context, criteria ports.SearchCriteria) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(criteria.Name)
	email := strings.ToLower(criteria.Email)
	results := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if name != "" && !strings.Contains(strings.ToLower(order.Name), name) {
			continue
		}
		if email != "" && (!order.HasEmail() || !strings.Contains(strings.ToLower(*order.Email), email)) {
			continue
		}
		if criteria.Phone != "" && !strings.Contains(order.ContactPhone(), criteria.Phone) {
			continue
		}
		results = append(results, order)
	}
	return results, nil
}

// UpdateStatus reports a missing order before rejecting an unknown status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if !domain.IsUpdatableStatus(status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) notify(ctx context.Context, order *domain.Order) {
	if s.notifier == nil {
		return
	}
	s.notifier.OrderPlaced(ctx, order.Clone())
}

var _ ports.Service = (*Service)(nil)
