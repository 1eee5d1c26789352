// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version  string
	sessions SessionManager
	tokens   TokenStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, sessions SessionManager, tokens TokenStore) HealthHandler {
	return &HealthHandlerImpl{
		version:  version,
		sessions: sessions,
		tokens:   tokens,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	body := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	}
	if h.sessions != nil {
		body["sessions"] = h.sessions.Len()
	}
	if h.tokens != nil {
		body["mapConfigured"] = h.tokens.Configured()
	}
	return c.JSON(http.StatusOK, body)
}
