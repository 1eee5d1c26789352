package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MakeNewCode/project-maps-webapp/internal/dashboard"
	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
)

// WebSocket message types for the map sync protocol
const (
	// Client -> Server messages
	MsgTypeMapLoaded  = "map:loaded"
	MsgTypePing       = "ping"
	MsgTypeViewSearch = "view:search"
	MsgTypeViewSelect = "view:select"
	MsgTypeViewPage   = "view:page"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeScene     = "scene"
	MsgTypePong      = "pong"
	MsgTypeError     = "error"
)

// WSMessage is the envelope of every WebSocket frame
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSConnectedPayload is sent once the socket is attached to a session
type WSConnectedPayload struct {
	SessionID string        `json:"sessionId"`
	Kind      string        `json:"kind"`
	Scene     mapview.Scene `json:"scene"`
}

// WSScenePayload carries a rendered scene
type WSScenePayload struct {
	Scene      mapview.Scene `json:"scene"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	SelectedID string        `json:"selectedId,omitempty"`
}

// WSErrorResponse is the payload of an error frame
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type viewSearchPayload struct {
	Query string `json:"query"`
}

type viewSelectPayload struct {
	ID string `json:"id"`
}

type viewPagePayload struct {
	Page int `json:"page"`
}

// MapSocketHandlerImpl keeps a browser map widget in sync with a dashboard
// session. Each connection holds one map session for its lifetime.
type MapSocketHandlerImpl struct {
	sessions SessionManager
	renderer *mapview.Renderer
	tokens   TokenStore
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewMapSocketHandler creates a new WebSocket map sync handler
func NewMapSocketHandler(sessions SessionManager, renderer *mapview.Renderer, tokens TokenStore, log *zap.Logger) MapSyncHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MapSocketHandlerImpl{
		sessions: sessions,
		renderer: renderer,
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		log: log.With(zap.String("component", "mapsync")),
	}
}

// mapConn serialises writes to one socket
type mapConn struct {
	ws  *websocket.Conn
	mu  sync.Mutex
	log *zap.Logger
}

func (mc *mapConn) send(msgType string, payload interface{}) {
	msg := WSMessage{Type: msgType, Timestamp: time.Now().UnixMilli()}
	if payload != nil {
		msg.Payload = mustJSON(payload)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if err := mc.ws.WriteJSON(msg); err != nil {
		mc.log.Debug("failed to send message", zap.String("type", msgType), zap.Error(err))
	}
}

func (mc *mapConn) sendError(message, code string) {
	mc.send(MsgTypeError, WSErrorResponse{Message: message, Code: code})
}

// close sends a normal close frame before the socket is torn down
func (mc *mapConn) close() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
	if err := mc.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		mc.log.Debug("failed to send close frame", zap.Error(err))
	}
}

// HandleMapSocket upgrades the connection and runs the map sync loop until
// the client disconnects.
func (h *MapSocketHandlerImpl) HandleMapSocket(c echo.Context) error {
	id := c.Param("sessionId")
	board, err := h.sessions.Board(id)
	if err != nil {
		return NewNotFoundError("session", id)
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	log := h.log.With(zap.String("session", shortID(id)))
	conn := &mapConn{ws: ws, log: log}
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Mount: released with every marker on return.
	layer := mapview.NewLayer()
	ms := mapview.Acquire(h.renderer, layer, h.tokens)
	defer ms.Close()

	updates, unsubscribe := board.Subscribe()
	defer unsubscribe()

	log.Info("map client connected")
	conn.send(MsgTypeConnected, WSConnectedPayload{
		SessionID: id,
		Kind:      string(board.Kind()),
		Scene:     layer.Scene(),
	})

	render := func() {
		snap, err := board.Snapshot(ctx)
		if err != nil {
			conn.sendError("failed to render dashboard: "+err.Error(), "RENDER_ERROR")
			return
		}
		var selected mapview.Placeable
		if snap.Selected != nil {
			selected = snap.Selected
		}
		applied, err := ms.Render(mapview.Placeables(snap.Visible()), selected, false)
		if err != nil || !applied {
			return
		}
		conn.send(MsgTypeScene, WSScenePayload{
			Scene:      layer.Scene(),
			Page:       snap.Page.Page,
			TotalPages: snap.Page.TotalPages,
			SelectedID: snap.State.SelectedKey,
		})
	}
	// Held back until the widget reports map:loaded.
	render()

	msgs := make(chan WSMessage)
	go func() {
		defer close(msgs)
		for {
			var msg WSMessage
			if err := ws.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug("connection error", zap.Error(err))
				}
				return
			}
			select {
			case msgs <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-updates:
			if !ok {
				log.Info("session closed, dropping map client")
				conn.sendError("session closed", "SESSION_CLOSED")
				conn.close()
				return nil
			}
			render()
		case msg, ok := <-msgs:
			if !ok {
				log.Info("map client disconnected")
				return nil
			}
			h.sessions.TouchSession(id)
			h.handleMessage(ctx, conn, board, ms, render, msg)
		}
	}
}

func (h *MapSocketHandlerImpl) handleMessage(ctx context.Context, conn *mapConn, board *dashboard.Board, ms *mapview.Session, render func(), msg WSMessage) {
	switch msg.Type {
	case MsgTypePing:
		conn.send(MsgTypePong, nil)
	case MsgTypeMapLoaded:
		if _, err := ms.MarkLoaded(); err != nil {
			conn.sendError(err.Error(), "SESSION_CLOSED")
			return
		}
		render()
	case MsgTypeViewSearch:
		var p viewSearchPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			conn.sendError("Invalid search payload: "+err.Error(), "INVALID_PAYLOAD")
			return
		}
		board.SetQuery(p.Query)
	case MsgTypeViewSelect:
		var p viewSelectPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			conn.sendError("Invalid select payload: "+err.Error(), "INVALID_PAYLOAD")
			return
		}
		if p.ID == "" {
			board.ClearSelection()
			return
		}
		if err := board.Select(ctx, p.ID); err != nil {
			conn.sendError("Orden no encontrada: "+p.ID, "NOT_FOUND")
		}
	case MsgTypeViewPage:
		var p viewPagePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			conn.sendError("Invalid page payload: "+err.Error(), "INVALID_PAYLOAD")
			return
		}
		if _, err := board.SetPage(ctx, p.Page); err != nil {
			conn.sendError("failed to change page: "+err.Error(), "RENDER_ERROR")
		}
	default:
		conn.sendError("Unknown message type: "+msg.Type, "INVALID_TYPE")
	}
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// shortID safely truncates an ID for logging
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
