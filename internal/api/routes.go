// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
	"github.com/MakeNewCode/project-maps-webapp/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store       storage.Store
	Tracking    ShipmentLister
	Sessions    SessionManager
	Tokens      TokenStore
	Renderer    *mapview.Renderer
	StyleURL    string
	PageSize    int
	MaxPageSize int
	Version     string
	Log         *zap.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Cargo     CargoHandler
	Tracking  TrackingHandler
	Dashboard DashboardHandler
	Map       MapHandler
	MapSync   MapSyncHandler
	Settings  SettingsHandler
	Nav       NavHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	if deps.Renderer == nil {
		deps.Renderer = mapview.NewRenderer(nil)
	}
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.Sessions, deps.Tokens),
		Cargo:     NewCargoHandler(deps.Store, deps.Renderer, deps.Tokens, deps.PageSize, deps.MaxPageSize, deps.Log),
		Tracking:  NewTrackingHandler(deps.Tracking, deps.PageSize, deps.MaxPageSize),
		Dashboard: NewDashboardHandler(deps.Sessions, deps.Log),
		Map:       NewMapHandler(deps.Store, deps.Renderer, deps.Tokens, deps.StyleURL, deps.PageSize),
		MapSync:   NewMapSocketHandler(deps.Sessions, deps.Renderer, deps.Tokens, deps.Log),
		Settings:  NewSettingsHandler(deps.Tokens, deps.Sessions, deps.Log),
		Nav:       NewNavHandler(),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/api/health", handlers.Health.HandleHealth)

	// Cargo order routes
	cargoGroup := e.Group("/api/cargo")
	cargoGroup.GET("", handlers.Cargo.HandleListCargo)
	cargoGroup.POST("", handlers.Cargo.HandleCreateCargo)
	cargoGroup.GET("/summary", handlers.Cargo.HandleCargoSummary)
	cargoGroup.GET("/:id", handlers.Cargo.HandleGetCargo)
	cargoGroup.GET("/:id/form", handlers.Cargo.HandleGetCargoForm)
	cargoGroup.GET("/:id/route", handlers.Cargo.HandleGetCargoRoute)
	cargoGroup.PUT("/:id", handlers.Cargo.HandleUpdateCargo)
	cargoGroup.DELETE("/:id", handlers.Cargo.HandleDeleteCargo)

	// Tracking feed
	e.GET("/api/tracking", handlers.Tracking.HandleListShipments)

	// Dashboard session routes
	dashGroup := e.Group("/api/dashboard")
	dashGroup.POST("/sessions", handlers.Dashboard.HandleCreateSession)
	dashGroup.GET("/:sessionId", handlers.Dashboard.HandleGetSnapshot)
	dashGroup.DELETE("/:sessionId", handlers.Dashboard.HandleDeleteSession)
	dashGroup.POST("/:sessionId/keepalive", handlers.Dashboard.HandleKeepAlive)
	dashGroup.PUT("/:sessionId/search", handlers.Dashboard.HandleSetSearch)
	dashGroup.PUT("/:sessionId/filters", handlers.Dashboard.HandleSetFilters)
	dashGroup.DELETE("/:sessionId/filters/status/:status", handlers.Dashboard.HandleRemoveStatus)
	dashGroup.DELETE("/:sessionId/filters/date-range", handlers.Dashboard.HandleClearDateRange)
	dashGroup.PUT("/:sessionId/selection", handlers.Dashboard.HandleSelect)
	dashGroup.DELETE("/:sessionId/selection", handlers.Dashboard.HandleClearSelection)
	dashGroup.PUT("/:sessionId/page", handlers.Dashboard.HandleSetPage)

	// Map widget routes
	mapGroup := e.Group("/api/map")
	mapGroup.GET("/config", handlers.Map.HandleGetMapConfig)
	mapGroup.GET("/cities", handlers.Map.HandleGetCities)
	mapGroup.GET("/scene", handlers.Map.HandleGetScene)

	// Settings
	e.GET("/api/settings/map-token", handlers.Settings.HandleGetMapToken)
	e.PUT("/api/settings/map-token", handlers.Settings.HandleSetMapToken)

	// Navigation
	e.GET("/api/nav", handlers.Nav.HandleGetNav)
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/dashboard/:sessionId/map/ws", handlers.MapSync.HandleMapSocket)
}

// SetupMiddleware installs the structured error handler
func SetupMiddleware(e *echo.Echo, log *zap.Logger, exposeDetails bool) {
	e.HTTPErrorHandler = NewErrorHandler(log, exposeDetails)
}
