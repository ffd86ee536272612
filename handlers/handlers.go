// Package handlers is the HTTP surface of the POS service.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/it21816772/neon---pos/common"
	"github.com/it21816772/neon---pos/inventory"
	"github.com/it21816772/neon---pos/orders"
	"github.com/it21816772/neon---pos/receipts"
	"github.com/it21816772/neon---pos/storage"
)

// API wires the domain services to HTTP routes.
type API struct {
	Store       storage.Store
	Coordinator *orders.Coordinator
	Query       *orders.Query
	Ledger      *inventory.Ledger
	Receipts    *receipts.Service
}

// Router builds the service router.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(WithIdentity)

	r.HandleFunc("/health", a.HealthCheck).Methods("GET")

	r.HandleFunc("/products", a.ListProducts).Methods("GET")

	r.HandleFunc("/inventory", a.ListInventory).Methods("GET")
	r.HandleFunc("/inventory/{productId}", a.GetInventory).Methods("GET")
	r.HandleFunc("/inventory/{productId}", RequireManager(a.UpdateInventory)).Methods("PATCH")

	r.HandleFunc("/orders", RequireUser(a.SubmitOrder)).Methods("POST")
	r.HandleFunc("/orders", a.ListOrders).Methods("GET")
	r.HandleFunc("/orders/{id}", a.GetOrder).Methods("GET")
	r.HandleFunc("/orders/{id}/receipts", RequireUser(a.RequestReceipt)).Methods("POST")

	return r
}

// SubmitOrderRequest is the request body for placing an order.
type SubmitOrderRequest struct {
	Items         []orders.Line        `json:"items"`
	CustomerEmail string               `json:"customer_email,omitempty"`
	PaymentMethod common.PaymentMethod `json:"payment_method,omitempty"`
}

// SubmitOrder handles the order placement.
func (a *API) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := a.Coordinator.Submit(r.Context(), orders.SubmitRequest{
		BuyerID:       IdentityFrom(r.Context()).UserID,
		Lines:         req.Items,
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (a *API) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.Query.List()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.Query.Get(mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := a.Store.ListProducts()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) ListInventory(w http.ResponseWriter, r *http.Request) {
	list, err := a.Ledger.List()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) GetInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := a.Ledger.Get(mux.Vars(r)["productId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// UpdateInventoryRequest is a partial update; omitted fields keep their value.
type UpdateInventoryRequest struct {
	Quantity *int64 `json:"quantity,omitempty"`
	MinStock *int64 `json:"min_stock,omitempty"`
}

func (a *API) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req UpdateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := a.Ledger.Update(mux.Vars(r)["productId"], storage.InventoryUpdate{
		Quantity: req.Quantity,
		MinStock: req.MinStock,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// RequestReceiptRequest asks for a receipt render of a committed order.
type RequestReceiptRequest struct {
	Kind        common.ReceiptKind `json:"kind"`
	Destination string             `json:"destination,omitempty"`
}

func (a *API) RequestReceipt(w http.ResponseWriter, r *http.Request) {
	var req RequestReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := a.Receipts.Request(r.Context(), mux.Vars(r)["id"], req.Kind, req.Destination)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// HealthCheck endpoint.
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type errorResponse struct {
	Error     string `json:"error"`
	ProductID string `json:"product_id,omitempty"`
}

// writeDomainError maps the error taxonomy to status codes: InvalidInput 400,
// NotFound 404, InsufficientStock 409, anything else 500. Stock and product
// errors carry the offending product id so the terminal can name it.
func writeDomainError(w http.ResponseWriter, err error) {
	var invalid *common.InvalidInputError
	var notFound *common.NotFoundError
	var stock *common.InsufficientStockError

	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: invalid.Error()})
	case errors.As(err, &notFound):
		resp := errorResponse{Error: notFound.Error()}
		if notFound.Kind == "product" || notFound.Kind == "inventory" {
			resp.ProductID = notFound.ID
		}
		writeJSON(w, http.StatusNotFound, resp)
	case errors.As(err, &stock):
		writeJSON(w, http.StatusConflict, errorResponse{Error: stock.Error(), ProductID: stock.ProductID})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
