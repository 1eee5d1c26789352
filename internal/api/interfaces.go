// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/MakeNewCode/project-maps-webapp/internal/dashboard"
	"github.com/MakeNewCode/project-maps-webapp/internal/session"
)

// CargoHandler handles order CRUD and detail views
type CargoHandler interface {
	HandleListCargo(c echo.Context) error
	HandleGetCargo(c echo.Context) error
	HandleGetCargoForm(c echo.Context) error
	HandleGetCargoRoute(c echo.Context) error
	HandleCreateCargo(c echo.Context) error
	HandleUpdateCargo(c echo.Context) error
	HandleDeleteCargo(c echo.Context) error
	HandleCargoSummary(c echo.Context) error
}

// TrackingHandler handles the shipment tracking feed
type TrackingHandler interface {
	HandleListShipments(c echo.Context) error
}

// DashboardHandler handles per-session dashboard state
type DashboardHandler interface {
	HandleCreateSession(c echo.Context) error
	HandleGetSnapshot(c echo.Context) error
	HandleDeleteSession(c echo.Context) error
	HandleKeepAlive(c echo.Context) error
	HandleSetSearch(c echo.Context) error
	HandleSetFilters(c echo.Context) error
	HandleRemoveStatus(c echo.Context) error
	HandleClearDateRange(c echo.Context) error
	HandleSelect(c echo.Context) error
	HandleClearSelection(c echo.Context) error
	HandleSetPage(c echo.Context) error
}

// MapHandler handles map widget configuration
type MapHandler interface {
	HandleGetMapConfig(c echo.Context) error
	HandleGetCities(c echo.Context) error
	HandleGetScene(c echo.Context) error
}

// SettingsHandler handles the persisted map token
type SettingsHandler interface {
	HandleGetMapToken(c echo.Context) error
	HandleSetMapToken(c echo.Context) error
}

// NavHandler serves the sidebar tree
type NavHandler interface {
	HandleGetNav(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// MapSyncHandler pushes map scenes over a WebSocket
type MapSyncHandler interface {
	HandleMapSocket(c echo.Context) error
}

// SessionManager defines the interface for dashboard session management
// This allows mocking in tests
type SessionManager interface {
	Create(kind dashboard.Kind) (session.Info, *dashboard.Board, error)
	Board(id string) (*dashboard.Board, error)
	Get(id string) (session.Info, bool)
	TouchSession(id string) bool
	Delete(id string) bool
	Len() int
	RefreshAll() int
}

// TokenStore is the persisted map access token
type TokenStore interface {
	Token() string
	Configured() bool
	Save(token string) error
}
