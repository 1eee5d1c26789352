// handlers_map.go - Map widget configuration handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"

	"github.com/MakeNewCode/project-maps-webapp/internal/filter"
	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
	"github.com/MakeNewCode/project-maps-webapp/internal/models"
	"github.com/MakeNewCode/project-maps-webapp/internal/pagination"
	"github.com/MakeNewCode/project-maps-webapp/internal/storage"
)

// MapHandlerImpl implements the MapHandler interface
type MapHandlerImpl struct {
	store    storage.Store
	renderer *mapview.Renderer
	tokens   TokenStore
	styleURL string
	pageSize int
}

// NewMapHandler creates a new map handler instance
func NewMapHandler(store storage.Store, renderer *mapview.Renderer, tokens TokenStore, styleURL string, pageSize int) MapHandler {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &MapHandlerImpl{
		store:    store,
		renderer: renderer,
		tokens:   tokens,
		styleURL: styleURL,
		pageSize: pageSize,
	}
}

type mapConfigResponse struct {
	StyleURL    string           `json:"styleUrl"`
	Configured  bool             `json:"configured"`
	Placeholder string           `json:"placeholder,omitempty"`
	Viewport    mapview.Viewport `json:"viewport"`
}

type cityResponse struct {
	Name     string    `json:"name"`
	Position orb.Point `json:"lngLat"`
}

// HandleGetMapConfig returns what the widget needs before it mounts
func (h *MapHandlerImpl) HandleGetMapConfig(c echo.Context) error {
	resp := mapConfigResponse{
		StyleURL:   h.styleURL,
		Configured: h.tokens.Configured(),
		Viewport:   mapview.NewViewport(mapview.ArgentinaBounds, mapview.InitialPadding),
	}
	if !resp.Configured {
		resp.Placeholder = mapview.PlaceholderMessage
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleGetCities returns the city table
func (h *MapHandlerImpl) HandleGetCities(c echo.Context) error {
	g := h.renderer.Gazetteer()
	names := g.Cities()
	out := make([]cityResponse, 0, len(names))
	for _, name := range names {
		out = append(out, cityResponse{Name: name, Position: g.Resolve(name)})
	}
	return c.JSON(http.StatusOK, out)
}

// HandleGetScene renders the orders matching ?q= on page ?page=. ?format=geojson
// answers with a FeatureCollection instead of the scene.
func (h *MapHandlerImpl) HandleGetScene(c echo.Context) error {
	orders, err := h.store.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list orders", err)
	}

	page, pageSize := pageParams(c, h.pageSize, 0)
	if c.QueryParam("page") == "" {
		pageSize = len(orders)
	}
	matching := filter.Items(filter.Apply(orders, filter.Criteria{Query: c.QueryParam("q")}, ""))
	visible := pagination.Paginate(matching, page, pageSize).Items

	var selected mapview.Placeable
	if key := c.QueryParam("selected"); key != "" {
		if order, ok := filter.Find(orders, key); ok {
			selected = order
		}
	}
	showRoute, _ := strconv.ParseBool(c.QueryParam("showRoute"))

	scene := h.renderer.Scene(h.tokens.Token(), mapview.Placeables[models.Cargo](visible), selected, showRoute)
	if c.QueryParam("format") == "geojson" {
		return c.JSON(http.StatusOK, scene.FeatureCollection())
	}
	return respond(c, http.StatusOK, scene)
}
