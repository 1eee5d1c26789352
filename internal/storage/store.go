// Package storage holds the in-memory order collection.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNewCode/project-maps-webapp/internal/models"
)

// ErrNotFound is returned when no order has the requested id.
var ErrNotFound = errors.New("order not found")

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendDuckDB = "duckdb"
)

// Store defines the interface for the cargo order collection.
type Store interface {
	// List returns every order in insertion order.
	List(ctx context.Context) ([]models.Cargo, error)
	Get(ctx context.Context, id int) (models.Cargo, error)
	// Create assigns the next id and appends c.
	Create(ctx context.Context, c models.Cargo) (models.Cargo, error)
	// Update replaces the order with c.ID.
	Update(ctx context.Context, c models.Cargo) (models.Cargo, error)
	Delete(ctx context.Context, id int) error
	Close() error
}

// New opens the store named by backend, seeded with records.
func New(backend string, records []models.Cargo) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(records), nil
	case BackendDuckDB:
		return NewDuckStore(context.Background(), records)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", backend)
	}
}

func notFound(id int) error {
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}
