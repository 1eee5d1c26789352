// handlers_settings.go - Map token settings handlers
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MakeNewCode/project-maps-webapp/internal/settings"
)

// SettingsHandlerImpl implements the SettingsHandler interface
type SettingsHandlerImpl struct {
	tokens   TokenStore
	sessions SessionManager
	log      *zap.Logger
}

// NewSettingsHandler creates a new settings handler instance. sessions may be
// nil, in which case open maps are not re-rendered when the token changes.
func NewSettingsHandler(tokens TokenStore, sessions SessionManager, log *zap.Logger) SettingsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsHandlerImpl{
		tokens:   tokens,
		sessions: sessions,
		log:      log.With(zap.String("component", "settings")),
	}
}

type mapTokenRequest struct {
	Token string `json:"token"`
}

type mapTokenResponse struct {
	Configured bool   `json:"configured"`
	Token      string `json:"token"`
}

// HandleGetMapToken returns the current map token
func (h *SettingsHandlerImpl) HandleGetMapToken(c echo.Context) error {
	return c.JSON(http.StatusOK, mapTokenResponse{
		Configured: h.tokens.Configured(),
		Token:      h.tokens.Token(),
	})
}

// HandleSetMapToken saves a new map token
func (h *SettingsHandlerImpl) HandleSetMapToken(c echo.Context) error {
	var req mapTokenRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	err := h.tokens.Save(req.Token)
	if errors.Is(err, settings.ErrEmptyToken) {
		return NewValidationError("token")
	}
	if err != nil {
		return NewInternalError("failed to save token", err)
	}

	refreshed := 0
	if h.sessions != nil {
		refreshed = h.sessions.RefreshAll()
	}
	h.log.Info("map token saved", zap.Int("refreshed_sessions", refreshed))
	return c.JSON(http.StatusOK, mapTokenResponse{Configured: true, Token: h.tokens.Token()})
}
