package storage

import (
	"context"
	"sync"
	"time"

	"github.com/MakeNewCode/project-maps-webapp/internal/models"
)

// MemoryStore implements Store with a mutex-guarded slice.
type MemoryStore struct {
	mu     sync.RWMutex
	orders []models.Cargo
	now    func() time.Time
}

// NewMemoryStore creates a store holding a copy of records.
func NewMemoryStore(records []models.Cargo) *MemoryStore {
	orders := make([]models.Cargo, len(records))
	copy(orders, records)
	return &MemoryStore{orders: orders, now: time.Now}
}

// List returns a copy of every order.
func (s *MemoryStore) List(ctx context.Context) ([]models.Cargo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Cargo, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

// Get retrieves an order by id.
func (s *MemoryStore) Get(ctx context.Context, id int) (models.Cargo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.orders[i], nil
	}
	return models.Cargo{}, notFound(id)
}

// Create appends c with id max(id)+1. A zero CreatedAt is set to now (UTC).
func (s *MemoryStore) Create(ctx context.Context, c models.Cargo) (models.Cargo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := 1
	for _, o := range s.orders {
		if o.ID >= next {
			next = o.ID + 1
		}
	}
	c.ID = next
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC().Truncate(time.Second)
	}
	s.orders = append(s.orders, c)
	return c, nil
}

// Update replaces the order with the same id, keeping its creation time.
func (s *MemoryStore) Update(ctx context.Context, c models.Cargo) (models.Cargo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(c.ID)
	if i < 0 {
		return models.Cargo{}, notFound(c.ID)
	}
	c.CreatedAt = s.orders[i].CreatedAt
	s.orders[i] = c
	return c, nil
}

// Delete removes an order, preserving the order of the rest.
func (s *MemoryStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) indexOf(id int) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
