package storage

import (
	"context"
	"sync"

	"github.com/MakeNewCode/project-maps-webapp/internal/models"
)

// TrackingFeed is the read-only shipment tracking list.
type TrackingFeed struct {
	mu        sync.RWMutex
	shipments []models.Shipment
}

// NewTrackingFeed creates a feed over a copy of shipments.
func NewTrackingFeed(shipments []models.Shipment) *TrackingFeed {
	s := make([]models.Shipment, len(shipments))
	copy(s, shipments)
	return &TrackingFeed{shipments: s}
}

// List returns every shipment in feed order.
func (f *TrackingFeed) List(ctx context.Context) ([]models.Shipment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Shipment, len(f.shipments))
	copy(out, f.shipments)
	return out, nil
}
