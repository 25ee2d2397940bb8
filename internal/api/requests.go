package api

import (
	"net/http"

	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/workflow"
)

// RequestsHandler handles material request endpoints.
type RequestsHandler struct {
	Svc *workflow.Service
}

type createRequestRequest struct {
	Items           []string `json:"items"`
	DeliveryType    string   `json:"delivery_type"`
	DeliveryAddress string   `json:"delivery_address"`
}

// Create handles POST /api/requests. The vendor is the caller.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	batch, err := h.Svc.CreateRequest(r.Context(), claims.UserID, req.Items, req.DeliveryType, req.DeliveryAddress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, batch)
}

// ListMine handles GET /api/requests/mine.
func (h *RequestsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	requests, err := h.Svc.ListForVendor(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRequests(w, requests)
}

// GetBatch handles GET /api/requests/batches/{ref}. Vendors only see their
// own batches; another vendor's batch looks missing.
func (h *RequestsHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Svc.GetBatch(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	if claims.Role == model.RoleVendor && detail.VendorID != claims.UserID {
		jsonError(w, http.StatusNotFound, "batch not found")
		return
	}
	jsonResponse(w, http.StatusOK, detail)
}

// List handles GET /api/requests?status=pending|confirmed. Pending is the
// default.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		requests []model.MaterialRequest
		err      error
	)
	switch r.URL.Query().Get("status") {
	case "", model.RequestStatusPending:
		requests, err = h.Svc.ListPending(r.Context())
	case model.RequestStatusConfirmed:
		requests, err = h.Svc.ListConfirmed(r.Context())
	default:
		jsonError(w, http.StatusBadRequest, "status must be pending or confirmed")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRequests(w, requests)
}

// Confirm handles POST /api/requests/{id}/confirm and returns the derived
// delivery order.
func (h *RequestsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	order, err := h.Svc.ConfirmRequest(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, order)
}

// Reject handles POST /api/requests/{id}/reject.
func (h *RequestsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	if err := h.Svc.RejectRequest(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /api/requests/{id}/complete.
func (h *RequestsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	if err := h.Svc.CompleteRequest(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": model.RequestStatusCompleted})
}

func writeRequests(w http.ResponseWriter, requests []model.MaterialRequest) {
	if requests == nil {
		requests = []model.MaterialRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}
