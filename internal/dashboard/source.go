package dashboard

import (
	"context"

	"github.com/MakeNewCode/project-maps-webapp/internal/models"
)

// CargoLister is the read side of the order store.
type CargoLister interface {
	List(ctx context.Context) ([]models.Cargo, error)
}

// ShipmentLister is the read side of the tracking feed.
type ShipmentLister interface {
	List(ctx context.Context) ([]models.Shipment, error)
}

// CargoSource lists the orders of l.
func CargoSource(l CargoLister) Source {
	return func(ctx context.Context) ([]Item, error) {
		orders, err := l.List(ctx)
		if err != nil {
			return nil, err
		}
		return items(orders), nil
	}
}

// ShipmentSource lists the shipments of l.
func ShipmentSource(l ShipmentLister) Source {
	return func(ctx context.Context) ([]Item, error) {
		shipments, err := l.List(ctx)
		if err != nil {
			return nil, err
		}
		return items(shipments), nil
	}
}

func items[T Item](records []T) []Item {
	out := make([]Item, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
