package api

import (
	"net/http"

	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/workflow"
)

// OrdersHandler handles driver-facing delivery order endpoints.
type OrdersHandler struct {
	Svc *workflow.Service
}

type acceptRequest struct {
	DeliveryTime string `json:"delivery_time"`
}

type advanceRequest struct {
	Status string `json:"status"`
}

// ListAvailable handles GET /api/orders/available.
func (h *OrdersHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Svc.ListAvailable(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []model.DeliveryOrder{}
	}
	jsonResponse(w, http.StatusOK, orders)
}

// ListAccepted handles GET /api/orders/accepted. The response maps each
// delivery address to the caller's orders there.
func (h *OrdersHandler) ListAccepted(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	groups, err := h.Svc.ListAcceptedForDriver(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, groups)
}

// Get handles GET /api/orders/{id}.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.Svc.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, order)
}

// Accept handles POST /api/orders/{id}/accept.
func (h *OrdersHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req acceptRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	order, err := h.Svc.Accept(r.Context(), id, claims.UserID, req.DeliveryTime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, order)
}

// Advance handles POST /api/orders/{id}/advance.
func (h *OrdersHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req advanceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	order, err := h.Svc.Advance(r.Context(), id, claims.UserID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, order)
}
