package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/supplychain/internal/model"
)

const orderSelect = `SELECT id, request_id, vendor_name, pickup_address, delivery_address, delivery_type,
	        is_quick, status, driver_id, delivery_time, created_at
	 FROM delivery_orders`

// InsertOrder adds a delivery order. Orders always enter the store available
// and unclaimed, whatever the passed value says.
func InsertOrder(ctx context.Context, q Querier, o model.DeliveryOrder) (int64, error) {
	id, err := Insert(ctx, q, "delivery_orders", []Field{
		F("request_id", o.RequestID),
		F("vendor_name", o.VendorName),
		F("pickup_address", o.PickupAddress),
		F("delivery_address", o.DeliveryAddress),
		F("delivery_type", o.DeliveryType),
		F("is_quick", o.IsQuick),
		F("status", model.OrderStatusAvailable),
	})
	if err != nil {
		return 0, fmt.Errorf("creating delivery order: %w", err)
	}
	return id, nil
}

// GetOrder returns a delivery order by ID, or nil if there is none.
func GetOrder(ctx context.Context, q Querier, id int64) (*model.DeliveryOrder, error) {
	o := &model.DeliveryOrder{}
	err := q.QueryRowContext(ctx, orderSelect+` WHERE id = ?`, id).Scan(
		&o.ID, &o.RequestID, &o.VendorName, &o.PickupAddress, &o.DeliveryAddress, &o.DeliveryType,
		&o.IsQuick, &o.Status, &o.DriverID, &o.DeliveryTime, &o.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("getting delivery order", err)
	}
	return o, nil
}

// ListAvailableOrders returns unclaimed orders, quick ones first and newest
// first within each group.
func ListAvailableOrders(ctx context.Context, q Querier) ([]model.DeliveryOrder, error) {
	rows, err := q.QueryContext(ctx,
		orderSelect+` WHERE status = ? AND driver_id IS NULL ORDER BY is_quick DESC, id DESC`,
		model.OrderStatusAvailable,
	)
	if err != nil {
		return nil, unavailable("listing available orders", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListDriverOrders returns a driver's orders in any of statuses, ordered by
// delivery address and then delivery time.
func ListDriverOrders(ctx context.Context, q Querier, driverID int64, statuses ...string) ([]model.DeliveryOrder, error) {
	query := orderSelect + ` WHERE driver_id = ?`
	args := []any{driverID}
	if len(statuses) > 0 {
		query += ` AND status IN (?` + strings.Repeat(", ?", len(statuses)-1) + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	query += ` ORDER BY delivery_address, delivery_time, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("listing driver orders", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ClaimOrder assigns an available order to a driver. The availability check
// and the assignment are one statement, so of any number of concurrent
// callers at most one sees true. False means the order is gone or taken.
func ClaimOrder(ctx context.Context, q Querier, orderID, driverID int64, deliveryTime string) (bool, error) {
	n, err := ConditionalUpdate(ctx, q, "delivery_orders",
		[]Field{
			F("status", model.OrderStatusAccepted),
			F("driver_id", driverID),
			F("delivery_time", deliveryTime),
		},
		[]Field{
			F("id", orderID),
			F("status", model.OrderStatusAvailable),
			F("driver_id", nil),
		},
	)
	if err != nil {
		return false, fmt.Errorf("claiming order %d: %w", orderID, err)
	}
	return n == 1, nil
}

// AdvanceOrder moves an order owned by driverID from one status to the next
// in a single conditional statement. False means the order is missing, owned
// by someone else or not in from.
func AdvanceOrder(ctx context.Context, q Querier, orderID, driverID int64, from, to string) (bool, error) {
	n, err := ConditionalUpdate(ctx, q, "delivery_orders",
		[]Field{F("status", to)},
		[]Field{
			F("id", orderID),
			F("driver_id", driverID),
			F("status", from),
		},
	)
	if err != nil {
		return false, fmt.Errorf("advancing order %d: %w", orderID, err)
	}
	return n == 1, nil
}

func scanOrders(rows *sql.Rows) ([]model.DeliveryOrder, error) {
	var orders []model.DeliveryOrder
	for rows.Next() {
		var o model.DeliveryOrder
		if err := rows.Scan(
			&o.ID, &o.RequestID, &o.VendorName, &o.PickupAddress, &o.DeliveryAddress, &o.DeliveryType,
			&o.IsQuick, &o.Status, &o.DriverID, &o.DeliveryTime, &o.CreatedAt,
		); err != nil {
			return nil, unavailable("scanning delivery order", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
