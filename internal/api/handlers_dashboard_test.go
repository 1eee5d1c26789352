// handlers_dashboard_test.go - Tests for dashboard session handlers
package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MakeNewCode/project-maps-webapp/internal/dashboard"
	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
	"github.com/MakeNewCode/project-maps-webapp/internal/session"
	"github.com/MakeNewCode/project-maps-webapp/internal/storage"
	"github.com/MakeNewCode/project-maps-webapp/internal/testutil"
)

func newTestSessions(store storage.Store, token string) *session.Manager {
	return newTestSessionsWith(store, testutil.NewMemoryTokens(token))
}

func newTestSessionsWith(store storage.Store, tokens *testutil.MemoryTokens) *session.Manager {
	renderer := mapview.NewRenderer(nil)
	feed := storage.NewTrackingFeed(storage.SeedShipments())
	factory := func(kind dashboard.Kind) *dashboard.Board {
		opts := dashboard.Options{PageSize: 3, Renderer: renderer, Tokens: tokens}
		if kind == dashboard.KindTracking {
			return dashboard.NewBoard(kind, dashboard.ShipmentSource(feed), opts)
		}
		return dashboard.NewBoard(kind, dashboard.CargoSource(store), opts)
	}
	return session.NewManager(factory, 0, nil)
}

type snapshotJSON struct {
	Kind  string `json:"kind"`
	State struct {
		Query       string   `json:"query"`
		Statuses    []string `json:"statuses"`
		DateRange   string   `json:"dateRange"`
		SelectedKey string   `json:"selectedId"`
		Page        int      `json:"page"`
	} `json:"state"`
	Chips []dashboard.Chip `json:"chips"`
	Page  struct {
		Items []struct {
			Item   map[string]interface{} `json:"item"`
			Active bool                   `json:"active"`
		} `json:"items"`
		Page       int `json:"page"`
		TotalPages int `json:"totalPages"`
	} `json:"page"`
	Selected map[string]interface{} `json:"selected"`
	Scene    mapview.Scene          `json:"scene"`
}

func decodeSnapshot(t *testing.T, body []byte) snapshotJSON {
	t.Helper()
	var snap snapshotJSON
	require.NoError(t, json.Unmarshal(body, &snap))
	return snap
}

func sessionContext(method, sessionID string, body interface{}) (echo.Context, func() []byte) {
	c, rec := newContext(method, "/", body)
	withParam(c, "sessionId", sessionID)
	return c, func() []byte { return rec.Body.Bytes() }
}

func createSession(t *testing.T, h DashboardHandler, kind string) string {
	t.Helper()
	c, rec := newContext(http.MethodPost, "/api/dashboard/sessions", map[string]string{"kind": kind})
	require.NoError(t, h.HandleCreateSession(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Session  session.Info    `json:"session"`
		Snapshot json.RawMessage `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Session.ID)
	return resp.Session.ID
}

func TestDashboardHandler_HandleCreateSession(t *testing.T) {
	tests := []struct {
		name      string
		kind      string
		wantKind  string
		wantChips int
		errCode   string
	}{
		{"default is cargo", "", "cargo", 0, ""},
		{"cargo", "cargo", "cargo", 0, ""},
		{"tracking chips", "tracking", "tracking", 3, ""},
		{"unknown kind", "boats", "", 0, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newTestSessions(testutil.NewSeededMockStore(), "")
			h := NewDashboardHandler(sessions, nil)
			c, rec := newContext(http.MethodPost, "/api/dashboard/sessions", map[string]string{"kind": tt.kind})

			err := h.HandleCreateSession(c)
			if tt.errCode != "" {
				requireAPIError(t, err, http.StatusBadRequest, tt.errCode)
				assert.Equal(t, 0, sessions.Len())
				return
			}
			require.NoError(t, err)

			var resp struct {
				Session  session.Info    `json:"session"`
				Snapshot json.RawMessage `json:"snapshot"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			snap := decodeSnapshot(t, resp.Snapshot)
			assert.Equal(t, tt.wantKind, snap.Kind)
			assert.Len(t, snap.Chips, tt.wantChips)
			assert.Equal(t, 1, snap.State.Page)
			assert.Equal(t, 1, sessions.Len())
		})
	}
}

func TestDashboardHandler_SearchSelectAndPage(t *testing.T) {
	sessions := newTestSessions(testutil.NewSeededMockStore(), "pk.test")
	h := NewDashboardHandler(sessions, nil)
	id := createSession(t, h, "cargo")

	// Move to page 2, then search: the page resets to 1.
	c, body := sessionContext(http.MethodPut, id, map[string]int{"page": 2})
	require.NoError(t, h.HandleSetPage(c))
	snap := decodeSnapshot(t, body())
	assert.Equal(t, 2, snap.Page.Page)
	require.Len(t, snap.Page.Items, 1)
	assert.EqualValues(t, 4, snap.Page.Items[0].Item["id"])

	c, body = sessionContext(http.MethodPut, id, map[string]string{"query": "rosario"})
	require.NoError(t, h.HandleSetSearch(c))
	snap = decodeSnapshot(t, body())
	assert.Equal(t, "rosario", snap.State.Query)
	assert.Equal(t, 1, snap.State.Page)
	require.Len(t, snap.Page.Items, 1)
	assert.Len(t, snap.Scene.Markers, 1)

	c, body = sessionContext(http.MethodPut, id, map[string]string{"id": "2"})
	require.NoError(t, h.HandleSelect(c))
	snap = decodeSnapshot(t, body())
	assert.Equal(t, "2", snap.State.SelectedKey)
	assert.True(t, snap.Page.Items[0].Active)
	assert.Equal(t, "Rosario", snap.Selected["origen"])
	assert.Nil(t, snap.Scene.Route, "dashboard map does not draw routes")

	c, body = sessionContext(http.MethodDelete, id, nil)
	require.NoError(t, h.HandleClearSelection(c))
	snap = decodeSnapshot(t, body())
	assert.Empty(t, snap.State.SelectedKey)
	assert.False(t, snap.Page.Items[0].Active)

	c, body = sessionContext(http.MethodGet, id, nil)
	require.NoError(t, h.HandleGetSnapshot(c))
	assert.Equal(t, "rosario", decodeSnapshot(t, body()).State.Query)
}

func TestDashboardHandler_PageClamped(t *testing.T) {
	h := NewDashboardHandler(newTestSessions(testutil.NewSeededMockStore(), ""), nil)
	id := createSession(t, h, "cargo")

	c, body := sessionContext(http.MethodPut, id, map[string]int{"page": 99})
	require.NoError(t, h.HandleSetPage(c))
	snap := decodeSnapshot(t, body())
	assert.Equal(t, 2, snap.Page.Page)
	assert.Equal(t, 2, snap.Page.TotalPages)
	assert.Equal(t, mapview.PlaceholderMessage, snap.Scene.Placeholder)
}

func TestDashboardHandler_SelectErrors(t *testing.T) {
	h := NewDashboardHandler(newTestSessions(testutil.NewSeededMockStore(), ""), nil)
	id := createSession(t, h, "cargo")

	c, _ := sessionContext(http.MethodPut, id, map[string]string{"id": "77"})
	requireAPIError(t, h.HandleSelect(c), http.StatusNotFound, "NOT_FOUND")

	c, _ = sessionContext(http.MethodPut, id, map[string]string{"id": ""})
	requireAPIError(t, h.HandleSelect(c), http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestDashboardHandler_TrackingFilters(t *testing.T) {
	h := NewDashboardHandler(newTestSessions(testutil.NewSeededMockStore(), ""), nil)
	id := createSession(t, h, "tracking")

	c, body := sessionContext(http.MethodGet, id, nil)
	require.NoError(t, h.HandleGetSnapshot(c))
	snap := decodeSnapshot(t, body())
	assert.ElementsMatch(t, []string{"Checking", "In Transit"}, snap.State.Statuses)
	assert.Equal(t, dashboard.DefaultDateRange, snap.State.DateRange)
	assert.Len(t, snap.Page.Items, 3)

	c, body = sessionContext(http.MethodDelete, id, nil)
	c.SetParamNames("sessionId", "status")
	c.SetParamValues(id, "Checking")
	require.NoError(t, h.HandleRemoveStatus(c))
	snap = decodeSnapshot(t, body())
	assert.Equal(t, []string{"In Transit"}, snap.State.Statuses)
	require.Len(t, snap.Page.Items, 1)
	assert.Equal(t, "#AD345Jk758", snap.Page.Items[0].Item["id"])

	c, body = sessionContext(http.MethodDelete, id, nil)
	require.NoError(t, h.HandleClearDateRange(c))
	snap = decodeSnapshot(t, body())
	assert.Empty(t, snap.State.DateRange)
	assert.Equal(t, []dashboard.Chip{{Kind: dashboard.ChipStatus, Label: "In Transit"}}, snap.Chips)

	c, body = sessionContext(http.MethodPut, id, map[string]interface{}{"statuses": []string{"Delivered"}, "dateRange": "1 Feb - 3 Feb"})
	require.NoError(t, h.HandleSetFilters(c))
	snap = decodeSnapshot(t, body())
	assert.Equal(t, []string{"Delivered"}, snap.State.Statuses)
	assert.Equal(t, "1 Feb - 3 Feb", snap.State.DateRange)
	require.Len(t, snap.Page.Items, 1)
	assert.Equal(t, "#CT789MP45Q", snap.Page.Items[0].Item["id"])
}

func TestDashboardHandler_SessionLifecycle(t *testing.T) {
	sessions := newTestSessions(testutil.NewSeededMockStore(), "")
	h := NewDashboardHandler(sessions, nil)
	id := createSession(t, h, "cargo")

	c, rec := newContext(http.MethodPost, "/", nil)
	withParam(c, "sessionId", id)
	require.NoError(t, h.HandleKeepAlive(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newContext(http.MethodDelete, "/", nil)
	withParam(c, "sessionId", id)
	require.NoError(t, h.HandleDeleteSession(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, sessions.Len())

	tests := []struct {
		name    string
		handler func(echo.Context) error
	}{
		{"snapshot", h.HandleGetSnapshot},
		{"keepalive", h.HandleKeepAlive},
		{"delete", h.HandleDeleteSession},
		{"clear selection", h.HandleClearSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name+" on missing session", func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/", nil)
			withParam(c, "sessionId", id)
			requireAPIError(t, tt.handler(c), http.StatusNotFound, "NOT_FOUND")
		})
	}
}
