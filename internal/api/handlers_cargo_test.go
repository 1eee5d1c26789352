// handlers_cargo_test.go - Tests for cargo handlers
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
	"github.com/MakeNewCode/project-maps-webapp/internal/models"
	"github.com/MakeNewCode/project-maps-webapp/internal/testutil"
)

func newCargoHandler(store *testutil.MockStore, token string) CargoHandler {
	return NewCargoHandler(store, mapview.NewRenderer(nil), testutil.NewMemoryTokens(token), 3, 100, nil)
}

func newContext(method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != nil {
		data, _ := json.Marshal(body)
		req = httptest.NewRequest(method, target, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func requireAPIError(t *testing.T, err error, status int, code string) *APIError {
	t.Helper()
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %T", err)
	assert.Equal(t, status, apiErr.Status)
	assert.Equal(t, code, apiErr.Code)
	return apiErr
}

type cargoPage struct {
	Items []struct {
		Item   models.Cargo `json:"item"`
		Active bool         `json:"active"`
	} `json:"items"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

func TestCargoHandler_HandleListCargo(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantIDs   []int
		wantPages int
		wantPage  int
	}{
		{"first page", "/api/cargo", []int{1, 2, 3}, 2, 1},
		{"second page", "/api/cargo?page=2", []int{4}, 2, 2},
		{"page clamped", "/api/cargo?page=7", []int{4}, 2, 2},
		{"negative page", "/api/cargo?page=-2", []int{1, 2, 3}, 2, 1},
		{"search rosario", "/api/cargo?q=rosario", []int{2}, 1, 1},
		{"search is case-insensitive", "/api/cargo?q=MENDOZA", []int{2}, 1, 1},
		{"search by id", "/api/cargo?q=4", []int{4}, 1, 1},
		{"no match", "/api/cargo?q=zzz", []int{}, 1, 1},
		{"page size", "/api/cargo?pageSize=10", []int{1, 2, 3, 4}, 1, 1},
		{"status excludes cargo", "/api/cargo?status=Checking", []int{}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCargoHandler(testutil.NewSeededMockStore(), "")
			c, rec := newContext(http.MethodGet, tt.target, nil)

			require.NoError(t, h.HandleListCargo(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var page cargoPage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
			ids := make([]int, 0, len(page.Items))
			for _, it := range page.Items {
				ids = append(ids, it.Item.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantPage, page.Page)
		})
	}
}

func TestCargoHandler_HandleListCargoSelected(t *testing.T) {
	h := newCargoHandler(testutil.NewSeededMockStore(), "")
	c, rec := newContext(http.MethodGet, "/api/cargo?selected=2", nil)

	require.NoError(t, h.HandleListCargo(c))
	var page cargoPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	for _, it := range page.Items {
		assert.Equal(t, it.Item.ID == 2, it.Active)
	}
}

func TestCargoHandler_HandleListCargoMsgpack(t *testing.T) {
	h := newCargoHandler(testutil.NewSeededMockStore(), "")
	c, rec := newContext(http.MethodGet, "/api/cargo?q=rosario", nil)
	c.Request().Header.Set(echo.HeaderAccept, MIMEMsgpack)

	require.NoError(t, h.HandleListCargo(c))
	assert.Equal(t, MIMEMsgpack, rec.Header().Get(echo.HeaderContentType))

	var page map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page["total"])
}

func decodeMsgpackMap(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(data, &out))
	return out
}

func TestCargoHandler_MsgpackKeysMatchJSON(t *testing.T) {
	t.Run("route", func(t *testing.T) {
		h := newCargoHandler(testutil.NewSeededMockStore(), "pk.test")
		c, rec := newContext(http.MethodGet, "/api/cargo/2/route", nil)
		withParam(c, "id", "2")
		c.Request().Header.Set(echo.HeaderAccept, MIMEMsgpack)

		require.NoError(t, h.HandleGetCargoRoute(c))
		body := decodeMsgpackMap(t, rec.Body.Bytes())

		scene, ok := body["scene"].(map[string]interface{})
		require.True(t, ok, "scene key missing: %v", body)
		markers, ok := scene["markers"].([]interface{})
		require.True(t, ok, "scene.markers missing: %v", scene)
		require.Len(t, markers, 2)
		marker := markers[0].(map[string]interface{})
		assert.Equal(t, "2", marker["orderId"])
		assert.Equal(t, "Rosario", marker["city"])
		assert.Contains(t, marker, "lngLat")
		assert.Contains(t, scene, "viewport")

		order := body["order"].(map[string]interface{})
		assert.Equal(t, "Rosario", order["origen"])
		assert.Equal(t, "2000.00", body["route"].(map[string]interface{})["precio"])
	})

	t.Run("form", func(t *testing.T) {
		h := newCargoHandler(testutil.NewSeededMockStore(), "")
		c, rec := newContext(http.MethodGet, "/api/cargo/2/form", nil)
		withParam(c, "id", "2")
		c.Request().Header.Set(echo.HeaderAccept, MIMEMsgpack)

		require.NoError(t, h.HandleGetCargoForm(c))
		body := decodeMsgpackMap(t, rec.Body.Bytes())

		form, ok := body["form"].(map[string]interface{})
		require.True(t, ok, "form key missing: %v", body)
		assert.Equal(t, "Rosario", form["origen"])
		assert.Equal(t, "2000.00", form["precio"])
		assert.Equal(t, "Contado", form["forma_pago"])
		assert.NotContains(t, form, "Origin")
		assert.Len(t, body["paymentMethods"], 3)
	})
}

func TestCargoHandler_HandleGetCargo(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
		errCode    string
	}{
		{"existing", "3", http.StatusOK, ""},
		{"missing", "99", http.StatusNotFound, "NOT_FOUND"},
		{"non-numeric", "abc", http.StatusBadRequest, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCargoHandler(testutil.NewSeededMockStore(), "")
			c, rec := newContext(http.MethodGet, "/api/cargo/"+tt.id, nil)
			withParam(c, "id", tt.id)

			err := h.HandleGetCargo(c)
			if tt.errCode != "" {
				apiErr := requireAPIError(t, err, tt.wantStatus, tt.errCode)
				if tt.wantStatus == http.StatusNotFound {
					assert.Equal(t, "Orden no encontrada", apiErr.Message)
				}
				return
			}
			require.NoError(t, err)
			var got models.Cargo
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "La Plata", got.Origin)
			assert.Equal(t, models.PaymentCard, got.PaymentMethod)
		})
	}
}

func TestCargoHandler_HandleGetCargoForm(t *testing.T) {
	h := newCargoHandler(testutil.NewSeededMockStore(), "")
	c, rec := newContext(http.MethodGet, "/api/cargo/1/form", nil)
	withParam(c, "id", "1")

	require.NoError(t, h.HandleGetCargoForm(c))
	var got formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, "700.50", got.Form.Km)
	assert.Equal(t, models.PaymentMethods, got.PaymentMethods)
}

func TestCargoHandler_HandleGetCargoRoute(t *testing.T) {
	t.Run("with token", func(t *testing.T) {
		h := newCargoHandler(testutil.NewSeededMockStore(), "pk.test")
		c, rec := newContext(http.MethodGet, "/api/cargo/2/route", nil)
		withParam(c, "id", "2")

		require.NoError(t, h.HandleGetCargoRoute(c))
		var got struct {
			Route RouteInfo `json:"route"`
			Scene struct {
				Markers []mapview.Marker `json:"markers"`
				Route   json.RawMessage  `json:"route"`
			} `json:"scene"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, RouteInfo{Origin: "Rosario", Destination: "Mendoza", Km: "850.75", Price: "2000.00", Commission: "60.00"}, got.Route)
		require.Len(t, got.Scene.Markers, 2)
		assert.Equal(t, mapview.MarkerDestination, got.Scene.Markers[1].Kind)
		assert.Contains(t, string(got.Scene.Route), "LineString")
	})

	t.Run("without token", func(t *testing.T) {
		h := newCargoHandler(testutil.NewSeededMockStore(), "")
		c, rec := newContext(http.MethodGet, "/api/cargo/2/route", nil)
		withParam(c, "id", "2")

		require.NoError(t, h.HandleGetCargoRoute(c))
		assert.Contains(t, rec.Body.String(), "Se requiere token de Mapbox")
	})
}

func TestCargoHandler_HandleCreateCargo(t *testing.T) {
	tests := []struct {
		name       string
		form       models.CargoForm
		wantStatus int
		errCode    string
		errFields  []string
	}{
		{
			name:       "valid",
			form:       models.CargoForm{Origin: "Salta", Destination: "Tucumán", Price: "950.00", Km: "300", PaymentMethod: "Contado"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty price",
			form:       models.CargoForm{Origin: "Salta", Destination: "Tucumán", Price: ""},
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
			errFields:  []string{"precio"},
		},
		{
			name:       "whitespace only",
			form:       models.CargoForm{Origin: "  ", Destination: "\t", Price: " "},
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
			errFields:  []string{"destino", "origen", "precio"},
		},
		{
			name:       "bad decimal",
			form:       models.CargoForm{Origin: "A", Destination: "B", Price: "mil"},
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
			errFields:  []string{"precio"},
		},
		{
			name:       "unknown payment",
			form:       models.CargoForm{Origin: "A", Destination: "B", Price: "1", PaymentMethod: "Cheque"},
			wantStatus: http.StatusBadRequest,
			errCode:    "VALIDATION_ERROR",
			errFields:  []string{"forma_pago"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewSeededMockStore()
			h := newCargoHandler(store, "")
			c, rec := newContext(http.MethodPost, "/api/cargo", tt.form)

			err := h.HandleCreateCargo(c)
			if tt.errCode != "" {
				apiErr := requireAPIError(t, err, tt.wantStatus, tt.errCode)
				fields := make([]string, 0, len(apiErr.Fields))
				for f := range apiErr.Fields {
					fields = append(fields, f)
				}
				assert.ElementsMatch(t, tt.errFields, fields)
				assert.Equal(t, 4, store.Len(), "store must be unchanged")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			var got models.Cargo
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, 5, got.ID)
			assert.False(t, got.CreatedAt.IsZero())
			assert.Equal(t, 5, store.Len())
		})
	}
}

func TestCargoHandler_HandleUpdateCargo(t *testing.T) {
	t.Run("replaces by id", func(t *testing.T) {
		store := testutil.NewSeededMockStore()
		h := newCargoHandler(store, "")
		form := models.CargoForm{Origin: "Buenos Aires", Destination: "Rosario", Price: "999.99"}
		c, rec := newContext(http.MethodPut, "/api/cargo/1", form)
		withParam(c, "id", "1")

		require.NoError(t, h.HandleUpdateCargo(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.Cargo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 1, got.ID)
		assert.Equal(t, "Rosario", got.Destination)
		assert.Equal(t, 2025, got.CreatedAt.Year())
		assert.Equal(t, 4, store.Len())
	})

	t.Run("missing id", func(t *testing.T) {
		h := newCargoHandler(testutil.NewSeededMockStore(), "")
		form := models.CargoForm{Origin: "A", Destination: "B", Price: "1"}
		c, _ := newContext(http.MethodPut, "/api/cargo/42", form)
		withParam(c, "id", "42")

		requireAPIError(t, h.HandleUpdateCargo(c), http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("invalid form", func(t *testing.T) {
		store := testutil.NewSeededMockStore()
		h := newCargoHandler(store, "")
		c, _ := newContext(http.MethodPut, "/api/cargo/1", models.CargoForm{Origin: "A"})
		withParam(c, "id", "1")

		requireAPIError(t, h.HandleUpdateCargo(c), http.StatusBadRequest, "VALIDATION_ERROR")
		assert.Equal(t, 0, store.Writes())
	})
}

func TestCargoHandler_HandleDeleteCargo(t *testing.T) {
	store := testutil.NewSeededMockStore()
	h := newCargoHandler(store, "")

	c, rec := newContext(http.MethodDelete, "/api/cargo/2", nil)
	withParam(c, "id", "2")
	require.NoError(t, h.HandleDeleteCargo(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 3, store.Len())

	c, _ = newContext(http.MethodDelete, "/api/cargo/2", nil)
	withParam(c, "id", "2")
	requireAPIError(t, h.HandleDeleteCargo(c), http.StatusNotFound, "NOT_FOUND")
}

func TestCargoHandler_HandleCargoSummary(t *testing.T) {
	h := newCargoHandler(testutil.NewSeededMockStore(), "")
	c, rec := newContext(http.MethodGet, "/api/cargo/summary", nil)

	require.NoError(t, h.HandleCargoSummary(c))
	var got models.CargoSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.CargoSummary{Count: 4, TotalKm: "2452.30", TotalPrice: "6500.00", TotalCommission: "205.00"}, got)
}

func TestCargoHandler_StoreFailure(t *testing.T) {
	store := testutil.NewSeededMockStore()
	store.SetError(errors.New("disk on fire"))
	h := newCargoHandler(store, "")

	c, _ := newContext(http.MethodGet, "/api/cargo", nil)
	requireAPIError(t, h.HandleListCargo(c), http.StatusInternalServerError, "INTERNAL_ERROR")
}
