// handlers_nav.go - Sidebar navigation handler
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MakeNewCode/project-maps-webapp/internal/nav"
)

// NavHandlerImpl implements the NavHandler interface
type NavHandlerImpl struct{}

// NewNavHandler creates a new nav handler instance
func NewNavHandler() NavHandler {
	return &NavHandlerImpl{}
}

// HandleGetNav returns the sidebar tree with the entries for ?path= marked current
func (h *NavHandlerImpl) HandleGetNav(c echo.Context) error {
	return c.JSON(http.StatusOK, nav.Evaluate(nav.Tree(), c.QueryParam("path")))
}
