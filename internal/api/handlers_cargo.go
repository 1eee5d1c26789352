// handlers_cargo.go - Cargo order CRUD handlers
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MakeNewCode/project-maps-webapp/internal/filter"
	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
	"github.com/MakeNewCode/project-maps-webapp/internal/models"
	"github.com/MakeNewCode/project-maps-webapp/internal/pagination"
	"github.com/MakeNewCode/project-maps-webapp/internal/storage"
)

// CargoHandlerImpl implements the CargoHandler interface
type CargoHandlerImpl struct {
	store       storage.Store
	renderer    *mapview.Renderer
	tokens      TokenStore
	pageSize    int
	maxPageSize int
	log         *zap.Logger
}

// NewCargoHandler creates a new cargo handler instance
func NewCargoHandler(store storage.Store, renderer *mapview.Renderer, tokens TokenStore, pageSize, maxPageSize int, log *zap.Logger) CargoHandler {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CargoHandlerImpl{
		store:       store,
		renderer:    renderer,
		tokens:      tokens,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		log:         log.With(zap.String("component", "cargo")),
	}
}

// RouteInfo is the journey summary shown next to the route map.
type RouteInfo struct {
	Origin      string `json:"origen" msgpack:"origen"`
	Destination string `json:"destino" msgpack:"destino"`
	Km          string `json:"km" msgpack:"km"`
	Price       string `json:"precio" msgpack:"precio"`
	Commission  string `json:"comision" msgpack:"comision"`
}

type routeResponse struct {
	Order models.Cargo  `json:"order" msgpack:"order"`
	Route RouteInfo     `json:"route" msgpack:"route"`
	Scene mapview.Scene `json:"scene" msgpack:"scene"`
}

type formResponse struct {
	ID             int                    `json:"id" msgpack:"id"`
	Form           models.CargoForm       `json:"form" msgpack:"form"`
	PaymentMethods []models.PaymentMethod `json:"paymentMethods" msgpack:"paymentMethods"`
}

// HandleListCargo returns the searched, annotated and paginated orders
func (h *CargoHandlerImpl) HandleListCargo(c echo.Context) error {
	orders, err := h.store.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list orders", err)
	}

	page, pageSize := pageParams(c, h.pageSize, h.maxPageSize)
	criteria := filter.Criteria{Query: c.QueryParam("q"), Statuses: queryList(c, "status")}
	annotated := filter.Apply(orders, criteria, c.QueryParam("selected"))

	return respond(c, http.StatusOK, pagination.Paginate(annotated, page, pageSize))
}

// HandleGetCargo returns one order for the detail view
func (h *CargoHandlerImpl) HandleGetCargo(c echo.Context) error {
	order, err := h.lookup(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// HandleGetCargoForm returns the edit form pre-filled with an order
func (h *CargoHandlerImpl) HandleGetCargoForm(c echo.Context) error {
	order, err := h.lookup(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, formResponse{
		ID:             order.ID,
		Form:           models.FormOf(order),
		PaymentMethods: models.PaymentMethods,
	})
}

// HandleGetCargoRoute returns an order with its route scene
func (h *CargoHandlerImpl) HandleGetCargoRoute(c echo.Context) error {
	order, err := h.lookup(c)
	if err != nil {
		return err
	}

	scene := h.renderer.Scene(h.tokens.Token(), mapview.Placeables([]models.Cargo{order}), order, true)
	return respond(c, http.StatusOK, routeResponse{
		Order: order,
		Route: RouteInfo{
			Origin:      order.Origin,
			Destination: order.Destination,
			Km:          order.Km,
			Price:       order.Price,
			Commission:  order.Commission,
		},
		Scene: scene,
	})
}

// HandleCreateCargo validates the form and appends a new order
func (h *CargoHandlerImpl) HandleCreateCargo(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return err
	}

	created, err := h.store.Create(c.Request().Context(), form.ApplyTo(models.Cargo{}))
	if err != nil {
		return NewInternalError("failed to create order", err)
	}

	h.log.Info("order created", zap.Int("id", created.ID), zap.String("route", created.Origin+" → "+created.Destination))
	return respond(c, http.StatusCreated, created)
}

// HandleUpdateCargo validates the form and replaces the order by id
func (h *CargoHandlerImpl) HandleUpdateCargo(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	form, err := bindForm(c)
	if err != nil {
		return err
	}

	updated, err := h.store.Update(c.Request().Context(), form.ApplyTo(models.Cargo{ID: id}))
	if errors.Is(err, storage.ErrNotFound) {
		return NewOrderNotFoundError(strconv.Itoa(id))
	}
	if err != nil {
		return NewInternalError("failed to update order", err)
	}

	h.log.Info("order updated", zap.Int("id", updated.ID))
	return respond(c, http.StatusOK, updated)
}

// HandleDeleteCargo removes an order
func (h *CargoHandlerImpl) HandleDeleteCargo(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}

	err = h.store.Delete(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return NewOrderNotFoundError(strconv.Itoa(id))
	}
	if err != nil {
		return NewInternalError("failed to delete order", err)
	}

	h.log.Info("order deleted", zap.Int("id", id))
	return noContent(c)
}

// HandleCargoSummary totals the orders matching q
func (h *CargoHandlerImpl) HandleCargoSummary(c echo.Context) error {
	orders, err := h.store.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list orders", err)
	}
	matching := filter.Items(filter.Apply(orders, filter.Criteria{Query: c.QueryParam("q")}, ""))
	return respond(c, http.StatusOK, models.Summarize(matching))
}

func (h *CargoHandlerImpl) lookup(c echo.Context) (models.Cargo, error) {
	id, err := orderID(c)
	if err != nil {
		return models.Cargo{}, err
	}
	order, err := h.store.Get(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Cargo{}, NewOrderNotFoundError(c.Param("id"))
	}
	if err != nil {
		return models.Cargo{}, NewInternalError("failed to get order", err)
	}
	return order, nil
}

func bindForm(c echo.Context) (models.CargoForm, error) {
	var form models.CargoForm
	if err := c.Bind(&form); err != nil {
		return form, NewBadRequestError("invalid request body", err)
	}
	form = form.Normalize()

	var fe models.FieldErrors
	if err := form.Validate(); errors.As(err, &fe) {
		return form, NewFormError(fe)
	} else if err != nil {
		return form, NewBadRequestError("invalid cargo form", err)
	}
	return form, nil
}
