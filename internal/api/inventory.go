package api

import (
	"net/http"

	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/workflow"
)

// InventoryHandler handles supplier stock endpoints.
type InventoryHandler struct {
	Svc *workflow.Service
}

type addInventoryRequest struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	items, err := h.Svc.ListInventory(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Add handles POST /api/inventory.
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	item, err := h.Svc.AddInventory(r.Context(), claims.UserID, req.ItemName, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}
