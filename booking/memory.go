package booking

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when no booking exists for a payment reference
var ErrNotFound = errors.New("booking not found")

// MemoryStore is an in-process Store for tests and single-node deployments
type MemoryStore struct {
	mu    sync.Mutex
	byRef map[string]Booking
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byRef: make(map[string]Booking)}
}

// Create inserts the booking unless one already exists for its PaymentRef,
// in which case the existing booking is returned unchanged.
func (s *MemoryStore) Create(_ context.Context, b Booking) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byRef[b.PaymentRef]; ok {
		return &existing, nil
	}
	s.byRef[b.PaymentRef] = b
	return &b, nil
}

// FindByPaymentRef looks up a booking by its gateway payment reference
func (s *MemoryStore) FindByPaymentRef(_ context.Context, paymentRef string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byRef[paymentRef]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}
