package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/supplychain/internal/model"
)

const requestSelect = `SELECT r.id, r.batch_ref, r.item_name, r.quantity, r.unit, r.vendor_id,
	        r.delivery_type, r.delivery_address, r.status, r.created_at,
	        COALESCE(u.username, '') AS vendor_name
	 FROM material_requests r
	 LEFT JOIN users u ON u.id = r.vendor_id`

// InsertRequest adds a pending material request and returns its id.
func InsertRequest(ctx context.Context, q Querier, r model.MaterialRequest) (int64, error) {
	id, err := Insert(ctx, q, "material_requests", []Field{
		F("batch_ref", r.BatchRef),
		F("item_name", r.ItemName),
		F("quantity", r.Quantity),
		F("unit", r.Unit),
		F("vendor_id", r.VendorID),
		F("delivery_type", r.DeliveryType),
		F("delivery_address", r.DeliveryAddress),
		F("status", model.RequestStatusPending),
	})
	if err != nil {
		return 0, fmt.Errorf("creating material request: %w", err)
	}
	return id, nil
}

// GetRequest returns a material request by ID, or nil if there is none.
func GetRequest(ctx context.Context, q Querier, id int64) (*model.MaterialRequest, error) {
	r := &model.MaterialRequest{}
	err := q.QueryRowContext(ctx, requestSelect+` WHERE r.id = ?`, id).Scan(
		&r.ID, &r.BatchRef, &r.ItemName, &r.Quantity, &r.Unit, &r.VendorID,
		&r.DeliveryType, &r.DeliveryAddress, &r.Status, &r.CreatedAt, &r.VendorName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("getting material request", err)
	}
	return r, nil
}

// ListRequestsByStatus returns requests in the given status, oldest first.
func ListRequestsByStatus(ctx context.Context, q Querier, status string) ([]model.MaterialRequest, error) {
	rows, err := q.QueryContext(ctx, requestSelect+` WHERE r.status = ? ORDER BY r.id`, status)
	if err != nil {
		return nil, unavailable("listing material requests", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListRequestsForVendor returns a vendor's requests, most recent first.
func ListRequestsForVendor(ctx context.Context, q Querier, vendorID int64) ([]model.MaterialRequest, error) {
	rows, err := q.QueryContext(ctx, requestSelect+` WHERE r.vendor_id = ? ORDER BY r.id DESC`, vendorID)
	if err != nil {
		return nil, unavailable("listing vendor requests", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListRequestsByBatch returns the requests created together under ref.
func ListRequestsByBatch(ctx context.Context, q Querier, ref string) ([]model.MaterialRequest, error) {
	rows, err := q.QueryContext(ctx, requestSelect+` WHERE r.batch_ref = ? ORDER BY r.id`, ref)
	if err != nil {
		return nil, unavailable("listing request batch", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// TransitionRequest moves a request from one status to another in a single
// conditional statement. It reports whether the request was in from.
func TransitionRequest(ctx context.Context, q Querier, id int64, from, to string) (bool, error) {
	n, err := ConditionalUpdate(ctx, q, "material_requests",
		[]Field{F("status", to)},
		[]Field{F("id", id), F("status", from)},
	)
	if err != nil {
		return false, fmt.Errorf("moving request %d to %s: %w", id, to, err)
	}
	return n == 1, nil
}

// DeleteRequest deletes a request only while it is still in status. It
// reports whether a row was removed.
func DeleteRequest(ctx context.Context, q Querier, id int64, status string) (bool, error) {
	result, err := q.ExecContext(ctx,
		`DELETE FROM material_requests WHERE id = ? AND status = ?`, id, status,
	)
	if err != nil {
		return false, unavailable("deleting material request", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, unavailable("reading affected rows", err)
	}
	return n == 1, nil
}

func scanRequests(rows *sql.Rows) ([]model.MaterialRequest, error) {
	var requests []model.MaterialRequest
	for rows.Next() {
		var r model.MaterialRequest
		if err := rows.Scan(
			&r.ID, &r.BatchRef, &r.ItemName, &r.Quantity, &r.Unit, &r.VendorID,
			&r.DeliveryType, &r.DeliveryAddress, &r.Status, &r.CreatedAt, &r.VendorName,
		); err != nil {
			return nil, unavailable("scanning material request", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
