package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/supplychain/internal/model"
	"github.com/erazemk/supplychain/internal/store"
)

// Batch is the result of one CreateRequest call.
type Batch struct {
	Ref        string   `json:"ref"`
	RequestIDs []int64  `json:"request_ids"`
	Skipped    []string `json:"skipped,omitempty"`
}

// BatchDetail is a stored batch with its items in input form.
type BatchDetail struct {
	Ref             string   `json:"ref"`
	VendorID        int64    `json:"vendor_id"`
	VendorName      string   `json:"vendor_name"`
	DeliveryType    string   `json:"delivery_type"`
	DeliveryAddress string   `json:"delivery_address"`
	Items           []string `json:"items"`
	Statuses        []string `json:"statuses"`
}

// CreateRequest records one pending material request per parsable item line.
// The envelope is validated before anything is written; malformed item lines
// are skipped and listed in the result. All rows of a call commit together.
func (s *Service) CreateRequest(ctx context.Context, vendorID int64, items []string, deliveryType, deliveryAddress string) (*Batch, error) {
	if vendorID <= 0 {
		return nil, validationError("vendor id is required")
	}
	if items == nil {
		return nil, validationError("items are required")
	}
	deliveryType = strings.TrimSpace(deliveryType)
	deliveryAddress = strings.TrimSpace(deliveryAddress)
	if deliveryType == "" || deliveryAddress == "" {
		return nil, validationError("delivery type and address are required")
	}

	batch := &Batch{Ref: newBatchRef(), RequestIDs: []int64{}}
	var lines []ItemLine
	for _, raw := range items {
		line, err := ParseItemLine(raw)
		if err != nil {
			s.log.Warn("skipping malformed item", "vendor", vendorID, "error", err)
			batch.Skipped = append(batch.Skipped, raw)
			continue
		}
		lines = append(lines, line)
	}

	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		vendor, err := store.GetUser(ctx, tx, vendorID)
		if err != nil {
			return err
		}
		if vendor == nil || vendor.Role != model.RoleVendor {
			return fmt.Errorf("vendor %d: %w", vendorID, ErrNotFound)
		}

		for _, line := range lines {
			id, err := store.InsertRequest(ctx, tx, model.MaterialRequest{
				BatchRef:        batch.Ref,
				ItemName:        line.Name,
				Quantity:        line.Quantity,
				Unit:            line.Unit,
				VendorID:        vendorID,
				DeliveryType:    deliveryType,
				DeliveryAddress: deliveryAddress,
			})
			if err != nil {
				return err
			}
			batch.RequestIDs = append(batch.RequestIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	s.log.Info("requests created", "vendor", vendorID, "batch", batch.Ref,
		"count", len(batch.RequestIDs), "skipped", len(batch.Skipped))
	return batch, nil
}

// ConfirmRequest moves a pending request to confirmed and derives its
// delivery order in the same transaction. Confirming twice fails with
// ErrInvalidState and derives nothing the second time.
func (s *Service) ConfirmRequest(ctx context.Context, requestID int64) (*model.DeliveryOrder, error) {
	var order model.DeliveryOrder
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := store.TransitionRequest(ctx, tx, requestID,
			model.RequestStatusPending, model.NextRequestStatus(model.RequestStatusPending))
		if err != nil {
			return err
		}
		if !ok {
			return s.explainRequestMiss(ctx, tx, requestID, model.RequestStatusPending)
		}

		req, err := store.GetRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		pickup, err := s.pickupFor(ctx, tx)
		if err != nil {
			return err
		}

		order = Derive(*req, pickup)
		order.ID, err = store.InsertOrder(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("confirming request %d: %w", requestID, err)
	}

	s.log.Info("request confirmed", "request", requestID, "order", order.ID, "quick", order.IsQuick)
	return &order, nil
}

// RejectRequest deletes a pending request. Orders already derived from it,
// if any, are left alone.
func (s *Service) RejectRequest(ctx context.Context, requestID int64) error {
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := store.DeleteRequest(ctx, tx, requestID, model.RequestStatusPending)
		if err != nil {
			return err
		}
		if !ok {
			return s.explainRequestMiss(ctx, tx, requestID, model.RequestStatusPending)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rejecting request %d: %w", requestID, err)
	}

	s.log.Info("request rejected", "request", requestID)
	return nil
}

// CompleteRequest moves a confirmed request to completed.
func (s *Service) CompleteRequest(ctx context.Context, requestID int64) error {
	err := store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := store.TransitionRequest(ctx, tx, requestID,
			model.RequestStatusConfirmed, model.NextRequestStatus(model.RequestStatusConfirmed))
		if err != nil {
			return err
		}
		if !ok {
			return s.explainRequestMiss(ctx, tx, requestID, model.RequestStatusConfirmed)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("completing request %d: %w", requestID, err)
	}

	s.log.Info("request completed", "request", requestID)
	return nil
}

// ListPending returns requests awaiting a supplier decision.
func (s *Service) ListPending(ctx context.Context) ([]model.MaterialRequest, error) {
	return store.ListRequestsByStatus(ctx, s.db, model.RequestStatusPending)
}

// ListConfirmed returns confirmed requests that are not yet completed.
func (s *Service) ListConfirmed(ctx context.Context) ([]model.MaterialRequest, error) {
	return store.ListRequestsByStatus(ctx, s.db, model.RequestStatusConfirmed)
}

// ListForVendor returns a vendor's requests, most recent first.
func (s *Service) ListForVendor(ctx context.Context, vendorID int64) ([]model.MaterialRequest, error) {
	return store.ListRequestsForVendor(ctx, s.db, vendorID)
}

// GetBatch returns the requests created together under ref.
func (s *Service) GetBatch(ctx context.Context, ref string) (*BatchDetail, error) {
	requests, err := store.ListRequestsByBatch(ctx, s.db, ref)
	if err != nil {
		return nil, fmt.Errorf("getting batch %s: %w", ref, err)
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("batch %s: %w", ref, ErrNotFound)
	}

	first := requests[0]
	d := &BatchDetail{
		Ref:             ref,
		VendorID:        first.VendorID,
		VendorName:      first.VendorName,
		DeliveryType:    first.DeliveryType,
		DeliveryAddress: first.DeliveryAddress,
	}
	for _, r := range requests {
		line := ItemLine{Name: r.ItemName, Quantity: r.Quantity, Unit: r.Unit}
		d.Items = append(d.Items, line.String())
		d.Statuses = append(d.Statuses, r.Status)
	}
	return d, nil
}

// explainRequestMiss is called after a conditional write on a request matched
// nothing. Requests have a single writer per transition, so reading back
// inside the same transaction is enough to tell missing from wrong state.
func (s *Service) explainRequestMiss(ctx context.Context, q store.Querier, requestID int64, want string) error {
	req, err := store.GetRequest(ctx, q, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	return fmt.Errorf("request %d is %s, not %s: %w", requestID, req.Status, want, ErrInvalidState)
}

func newBatchRef() string {
	return "SC-" + strings.ToUpper(uuid.NewString()[:8])
}
