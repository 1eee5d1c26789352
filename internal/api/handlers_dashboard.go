// handlers_dashboard.go - Dashboard view state handlers
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MakeNewCode/project-maps-webapp/internal/dashboard"
	"github.com/MakeNewCode/project-maps-webapp/internal/session"
)

// DashboardHandlerImpl implements the DashboardHandler interface
type DashboardHandlerImpl struct {
	sessions SessionManager
	log      *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(sessions SessionManager, log *zap.Logger) DashboardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardHandlerImpl{sessions: sessions, log: log.With(zap.String("component", "dashboard"))}
}

type createSessionRequest struct {
	Kind string `json:"kind"`
}

type sessionResponse struct {
	Session  session.Info       `json:"session"`
	Snapshot dashboard.Snapshot `json:"snapshot"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type filtersRequest struct {
	Statuses  []string `json:"statuses"`
	DateRange string   `json:"dateRange"`
}

type selectRequest struct {
	ID string `json:"id"`
}

type pageRequest struct {
	Page int `json:"page"`
}

// HandleCreateSession starts a dashboard session of the requested kind
func (h *DashboardHandlerImpl) HandleCreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	kind, err := dashboard.ParseKind(req.Kind)
	if err != nil {
		return NewBadRequestError("invalid dashboard kind", err)
	}

	info, board, err := h.sessions.Create(kind)
	if err != nil {
		return NewServiceUnavailableError(err.Error())
	}
	snap, err := board.Snapshot(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to render dashboard", err)
	}

	return respond(c, http.StatusCreated, sessionResponse{Session: info, Snapshot: snap})
}

// HandleGetSnapshot returns the current dashboard view
func (h *DashboardHandlerImpl) HandleGetSnapshot(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return err
	}
	return h.snapshot(c, board)
}

// HandleDeleteSession ends a dashboard session
func (h *DashboardHandlerImpl) HandleDeleteSession(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessions.Delete(id) {
		return NewNotFoundError("session", id)
	}
	return noContent(c)
}

// HandleKeepAlive extends session lifetime for active viewing
func (h *DashboardHandlerImpl) HandleKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}
	if ok := h.sessions.TouchSession(id); !ok {
		return NewNotFoundError("session", id)
	}
	return noContent(c)
}

// HandleSetSearch replaces the search text
func (h *DashboardHandlerImpl) HandleSetSearch(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return err
	}
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	board.SetQuery(req.Query)
	return h.snapshot(c, board)
}

// HandleSetFilters replaces the status and date chips
func (h *DashboardHandlerImpl) HandleSetFilters(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return err
	}
	var req filtersRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	board.SetFilters(req.Statuses, req.DateRange)
	return h.snapshot(c, board)
}

// HandleRemoveStatus removes one status chip
func (h *DashboardHandlerImpl) HandleRemoveStatus(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return err
	}
	board.RemoveStatus(c.Param("status"))
	return h.snapshot(c, board)
}

// HandleClearDateRange removes the date chip
func (h *DashboardHandlerImpl) HandleClearDateRange(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return err
	}
	board.ClearDateRange()
	return h.snapshot(c, board)
}

// HandleSelect marks an order as selected
func (h *DashboardHandlerImpl) HandleSelect(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return err
	}
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.ID == "" {
		return NewValidationError("id")
	}

	err = board.Select(c.Request().Context(), req.ID)
	if errors.Is(err, dashboard.ErrUnknownRecord) {
		return NewOrderNotFoundError(req.ID)
	}
	if err != nil {
		return NewInternalError("failed to select order", err)
	}
	return h.snapshot(c, board)
}

// HandleClearSelection deselects the current order
func (h *DashboardHandlerImpl) HandleClearSelection(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return err
	}
	board.ClearSelection()
	return h.snapshot(c, board)
}

// HandleSetPage moves to another page
func (h *DashboardHandlerImpl) HandleSetPage(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return err
	}
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if _, err := board.SetPage(c.Request().Context(), req.Page); err != nil {
		return NewInternalError("failed to change page", err)
	}
	return h.snapshot(c, board)
}

func (h *DashboardHandlerImpl) board(c echo.Context) (*dashboard.Board, error) {
	id := c.Param("sessionId")
	if id == "" {
		return nil, NewValidationError("sessionId")
	}
	board, err := h.sessions.Board(id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, NewNotFoundError("session", id)
	}
	if err != nil {
		return nil, NewInternalError("failed to load session", err)
	}
	return board, nil
}

func (h *DashboardHandlerImpl) snapshot(c echo.Context, board *dashboard.Board) error {
	snap, err := board.Snapshot(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to render dashboard", err)
	}
	return respond(c, http.StatusOK, snap)
}
