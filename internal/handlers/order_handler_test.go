package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahim/dbpulse/internal/models"
)

func TestOrderCreateEndpoint(t *testing.T) {
	router, conn := setupRouter(t)
	client := seedClient(t, conn, "ada@example.com")
	product := seedProduct(t, conn, "SKU-1", "Widget", "10.00", 5)

	body := fmt.Sprintf(`{"client_id":%d,"items":[{"product_id":%d,"quantity":3}],"shipping_address":"1 Main St"}`,
		client.ID, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30.00", resp.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, resp.Status)
	assert.Equal(t, "Ada Lovelace", resp.ClientName)
	assert.Regexp(t, `^ORD-\d{14}-[0-9A-F]{8}$`, resp.OrderNumber)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Widget", resp.Items[0].ProductName)
	assert.Equal(t, "10.00", resp.Items[0].UnitPrice)
	assert.Equal(t, "30.00", resp.Items[0].Subtotal)

	var stored models.Product
	require.NoError(t, conn.First(&stored, product.ID).Error)
	assert.Equal(t, 2, stored.StockQuantity)
}

func TestOrderCreateUnknownClientReturns404(t *testing.T) {
	router, conn := setupRouter(t)
	product := seedProduct(t, conn, "SKU-1", "Widget", "10.00", 5)

	body := fmt.Sprintf(`{"client_id":999,"items":[{"product_id":%d,"quantity":1}]}`, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error)
}

func TestOrderCreateInsufficientStockReturns400(t *testing.T) {
	router, conn := setupRouter(t)
	client := seedClient(t, conn, "ada@example.com")
	product := seedProduct(t, conn, "SKU-1", "Widget", "10.00", 2)

	body := fmt.Sprintf(`{"client_id":%d,"items":[{"product_id":%d,"quantity":3}]}`, client.ID, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error   string `json:"error"`
		Details struct {
			Product   string `json:"product"`
			Available int    `json:"available"`
			Requested int    `json:"requested"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient_stock", resp.Error)
	assert.Equal(t, "Widget", resp.Details.Product)
	assert.Equal(t, 2, resp.Details.Available)
	assert.Equal(t, 3, resp.Details.Requested)

	var stored models.Product
	require.NoError(t, conn.First(&stored, product.ID).Error)
	assert.Equal(t, 2, stored.StockQuantity)
}

func TestOrderCreateEmptyItemsRejected(t *testing.T) {
	router, conn := setupRouter(t)
	client := seedClient(t, conn, "ada@example.com")

	body := fmt.Sprintf(`{"client_id":%d,"items":[]}`, client.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderCreateZeroQuantityRejected(t *testing.T) {
	router, conn := setupRouter(t)
	client := seedClient(t, conn, "ada@example.com")
	product := seedProduct(t, conn, "SKU-1", "Widget", "10.00", 5)

	body := fmt.Sprintf(`{"client_id":%d,"items":[{"product_id":%d,"quantity":0}]}`, client.ID, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderGetEndpoint(t *testing.T) {
	router, conn := setupRouter(t)
	client := seedClient(t, conn, "ada@example.com")
	product := seedProduct(t, conn, "SKU-1", "Widget", "10.00", 5)

	body := fmt.Sprintf(`{"client_id":%d,"items":[{"product_id":%d,"quantity":1}]}`, client.ID, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var fetched OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.OrderNumber, fetched.OrderNumber)

	req = httptest.NewRequest(http.MethodGet, "/api/orders/9999", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderUpdateStatusEndpoint(t *testing.T) {
	router, conn := setupRouter(t)
	client := seedClient(t, conn, "ada@example.com")
	product := seedProduct(t, conn, "SKU-1", "Widget", "10.00", 5)

	body := fmt.Sprintf(`{"client_id":%d,"items":[{"product_id":%d,"quantity":1}]}`, client.ID, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodPatch,
		fmt.Sprintf("/api/orders/%d/status?status=CONFIRMED", created.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var updated OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)

	// Unknown status values never reach the service.
	req = httptest.NewRequest(http.MethodPatch,
		fmt.Sprintf("/api/orders/%d/status?status=BOGUS", created.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderListByClientEndpoint(t *testing.T) {
	router, conn := setupRouter(t)
	client := seedClient(t, conn, "ada@example.com")
	product := seedProduct(t, conn, "SKU-1", "Widget", "10.00", 10)

	for i := 0; i < 2; i++ {
		body := fmt.Sprintf(`{"client_id":%d,"items":[{"product_id":%d,"quantity":1}]}`, client.ID, product.ID)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/orders/client/%d", client.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var orders []OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}
