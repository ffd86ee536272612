package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/it21816772/neon---pos/common"
	"github.com/it21816772/neon---pos/inventory"
	"github.com/it21816772/neon---pos/orders"
	"github.com/it21816772/neon---pos/receipts"
	"github.com/it21816772/neon---pos/storage"
)

func newTestAPI() *API {
	s := storage.NewMemoryStore()
	s.AddCategory(common.Category{ID: "cat-1", Name: "Drinks"})
	s.AddUser(common.User{ID: "user-1", Email: "cashier@example.com", Name: "Cashier", Role: common.RoleCashier})
	s.AddProduct(common.Product{ID: "prod-a", Name: "Plain Coffee", PriceCents: 250, CategoryID: "cat-1"}, 50, 10)
	s.AddProduct(common.Product{ID: "prod-b", Name: "Blueberry Muffin", PriceCents: 350, CategoryID: "cat-1"}, 1, 0)

	publisher := receipts.NewPublisher(receipts.LogBroker{})
	ledger := inventory.NewLedger(s)
	return &API{
		Store:       s,
		Coordinator: orders.NewCoordinator(s, ledger, publisher),
		Query:       orders.NewQuery(s),
		Ledger:      ledger,
		Receipts:    receipts.NewService(s, publisher),
	}
}

type testRequest struct {
	method string
	path   string
	body   interface{}
	userID string
	role   string
}

func do(t *testing.T, api *API, req testRequest) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if req.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(req.body))
	}
	r := httptest.NewRequest(req.method, req.path, &body)
	if req.userID != "" {
		r.Header.Set("X-User-ID", req.userID)
	}
	if req.role != "" {
		r.Header.Set("X-User-Role", req.role)
	}

	w := httptest.NewRecorder()
	api.Router().ServeHTTP(w, r)
	return w
}

func TestSubmitOrder_Created(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{
		method: "POST",
		path:   "/orders",
		userID: "user-1",
		body: SubmitOrderRequest{
			Items: []orders.Line{{ProductID: "prod-a", Quantity: 2}},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var order common.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, common.OrderCompleted, order.Status)
	assert.Equal(t, int64(500), order.SubtotalCents)
	assert.Equal(t, int64(38), order.TaxCents)
	assert.Equal(t, int64(538), order.TotalCents)
	assert.Equal(t, "user-1", order.UserID)
}

func TestSubmitOrder_RequiresAuthentication(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{
		method: "POST",
		path:   "/orders",
		body: SubmitOrderRequest{
			Items: []orders.Line{{ProductID: "prod-a", Quantity: 1}},
		},
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitOrder_InsufficientStockConflict(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{
		method: "POST",
		path:   "/orders",
		userID: "user-1",
		body: SubmitOrderRequest{
			Items: []orders.Line{{ProductID: "prod-b", Quantity: 2}},
		},
	})

	require.Equal(t, http.StatusConflict, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "prod-b", resp.ProductID)
	assert.Contains(t, resp.Error, "Blueberry Muffin")
}

func TestSubmitOrder_UnknownProductNotFound(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{
		method: "POST",
		path:   "/orders",
		userID: "user-1",
		body: SubmitOrderRequest{
			Items: []orders.Line{{ProductID: "prod-x", Quantity: 1}},
		},
	})

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "prod-x", resp.ProductID)
}

func TestSubmitOrder_BadRequests(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{method: "POST", path: "/orders", userID: "user-1", body: SubmitOrderRequest{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r := httptest.NewRequest("POST", "/orders", bytes.NewBufferString("{not json"))
	r.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAndGetOrders(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{
		method: "POST",
		path:   "/orders",
		userID: "user-1",
		body: SubmitOrderRequest{
			Items: []orders.Line{{ProductID: "prod-a", Quantity: 1}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created common.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(t, api, testRequest{method: "GET", path: "/orders"})
	require.Equal(t, http.StatusOK, w.Code)
	var list []common.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = do(t, api, testRequest{method: "GET", path: "/orders/" + created.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, api, testRequest{method: "GET", path: "/orders/no-such-order"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryEndpoints(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{method: "GET", path: "/inventory/prod-a"})
	require.Equal(t, http.StatusOK, w.Code)
	var inv common.Inventory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, int64(50), inv.Quantity)

	w = do(t, api, testRequest{method: "GET", path: "/inventory"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, api, testRequest{method: "GET", path: "/inventory/missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateInventory_ManagerOnly(t *testing.T) {
	api := newTestAPI()
	qty := int64(75)
	body := UpdateInventoryRequest{Quantity: &qty}

	w := do(t, api, testRequest{method: "PATCH", path: "/inventory/prod-a", body: body})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, api, testRequest{method: "PATCH", path: "/inventory/prod-a", body: body, userID: "user-1", role: common.RoleCashier})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, api, testRequest{method: "PATCH", path: "/inventory/prod-a", body: body, userID: "user-2", role: common.RoleManager})
	require.Equal(t, http.StatusOK, w.Code)
	var inv common.Inventory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, int64(75), inv.Quantity)
}

func TestRequestReceipt(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{
		method: "POST",
		path:   "/orders",
		userID: "user-1",
		body: SubmitOrderRequest{
			Items: []orders.Line{{ProductID: "prod-a", Quantity: 1}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created common.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(t, api, testRequest{
		method: "POST",
		path:   "/orders/" + created.ID + "/receipts",
		userID: "user-1",
		body:   RequestReceiptRequest{Kind: common.ReceiptPrint},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var receipt common.Receipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, created.ID, receipt.OrderID)

	w = do(t, api, testRequest{method: "GET", path: "/orders/" + created.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var got common.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Receipts, 1)
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI()

	w := do(t, api, testRequest{method: "GET", path: "/health"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
