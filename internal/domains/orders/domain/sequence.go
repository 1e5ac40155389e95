package domain

import (
	"sync"
	"time"
)

// Sequence issues strictly increasing, millisecond-derived order identifiers.
// Ids stay numerically sortable by creation time and never repeat within a process.
type Sequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewSequence returns a sequence backed by the wall clock.
func NewSequence() *Sequence {
	return &Sequence{now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *Sequence) WithClock(now func() time.Time) *Sequence {
	if now != nil {
		s.now = now
	}
	return s
}

// Observe raises the floor so ids already persisted are never issued again.
func (s *Sequence) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}

// Next returns max(now in millis, last+1).
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
