// mock_store.go - Mock order store implementation for testing
package testutil

import (
	"context"
	"sync"

	"github.com/MakeNewCode/project-maps-webapp/internal/models"
	"github.com/MakeNewCode/project-maps-webapp/internal/storage"
)

// MockStore implements storage.Store for testing. It wraps a MemoryStore and
// can be told to fail, and counts writes.
type MockStore struct {
	inner *storage.MemoryStore

	mu     sync.Mutex
	Err    error // returned by every method when set
	writes int
}

// NewMockStore creates a mock store holding records
func NewMockStore(records []models.Cargo) *MockStore {
	return &MockStore{inner: storage.NewMemoryStore(records)}
}

// NewSeededMockStore creates a mock store holding the built-in orders
func NewSeededMockStore() *MockStore {
	return NewMockStore(storage.SeedCargo())
}

func (m *MockStore) fail() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

// SetError makes every subsequent call return err
func (m *MockStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

func (m *MockStore) wrote() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
}

// Writes returns how many successful mutations were made
func (m *MockStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MockStore) List(ctx context.Context) ([]models.Cargo, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.inner.List(ctx)
}

func (m *MockStore) Get(ctx context.Context, id int) (models.Cargo, error) {
	if err := m.fail(); err != nil {
		return models.Cargo{}, err
	}
	return m.inner.Get(ctx, id)
}

func (m *MockStore) Create(ctx context.Context, c models.Cargo) (models.Cargo, error) {
	if err := m.fail(); err != nil {
		return models.Cargo{}, err
	}
	created, err := m.inner.Create(ctx, c)
	if err == nil {
		m.wrote()
	}
	return created, err
}

func (m *MockStore) Update(ctx context.Context, c models.Cargo) (models.Cargo, error) {
	if err := m.fail(); err != nil {
		return models.Cargo{}, err
	}
	updated, err := m.inner.Update(ctx, c)
	if err == nil {
		m.wrote()
	}
	return updated, err
}

func (m *MockStore) Delete(ctx context.Context, id int) error {
	if err := m.fail(); err != nil {
		return err
	}
	err := m.inner.Delete(ctx, id)
	if err == nil {
		m.wrote()
	}
	return err
}

func (m *MockStore) Close() error { return nil }

// Len returns the number of orders held
func (m *MockStore) Len() int {
	orders, _ := m.inner.List(context.Background())
	return len(orders)
}

// MemoryTokens is an in-memory map token store
type MemoryTokens struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokens creates a token store holding token
func NewMemoryTokens(token string) *MemoryTokens {
	return &MemoryTokens{token: token}
}

func (t *MemoryTokens) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *MemoryTokens) Configured() bool { return t.Token() != "" }

func (t *MemoryTokens) Save(token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
	return nil
}
