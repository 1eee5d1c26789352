// handlers_tracking.go - Shipment tracking feed handlers
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MakeNewCode/project-maps-webapp/internal/filter"
	"github.com/MakeNewCode/project-maps-webapp/internal/models"
	"github.com/MakeNewCode/project-maps-webapp/internal/pagination"
)

// ShipmentLister is the read side of the tracking feed
type ShipmentLister interface {
	List(ctx context.Context) ([]models.Shipment, error)
}

// TrackingHandlerImpl implements the TrackingHandler interface
type TrackingHandlerImpl struct {
	feed        ShipmentLister
	pageSize    int
	maxPageSize int
}

// NewTrackingHandler creates a new tracking handler instance
func NewTrackingHandler(feed ShipmentLister, pageSize, maxPageSize int) TrackingHandler {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &TrackingHandlerImpl{feed: feed, pageSize: pageSize, maxPageSize: maxPageSize}
}

// TrackingCard is a shipment as drawn by the tracking list.
type TrackingCard struct {
	Shipment models.Shipment    `json:"shipment" msgpack:"shipment"`
	Active   bool               `json:"active" msgpack:"active"`
	Progress int                `json:"progress" msgpack:"progress"`
	Steps    []models.StepState `json:"stepStates" msgpack:"stepStates"`
}

// HandleListShipments returns the filtered shipment cards. When no status
// parameter is given every status is accepted.
func (h *TrackingHandlerImpl) HandleListShipments(c echo.Context) error {
	shipments, err := h.feed.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list shipments", err)
	}

	criteria := filter.Criteria{Query: c.QueryParam("q"), Statuses: queryList(c, "status")}
	annotated := filter.Apply(shipments, criteria, c.QueryParam("selected"))

	cards := make([]TrackingCard, len(annotated))
	for i, a := range annotated {
		cards[i] = TrackingCard{
			Shipment: a.Item,
			Active:   a.Active,
			Progress: a.Item.ClampedProgress(),
			Steps:    a.Item.StepStates(),
		}
	}

	page, pageSize := pageParams(c, h.pageSize, h.maxPageSize)
	return respond(c, http.StatusOK, pagination.Paginate(cards, page, pageSize))
}
