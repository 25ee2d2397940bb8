package model

import "time"

// DeliveryOrder is the driver-facing unit of work derived from a request.
// DriverID and DeliveryTime are nil exactly while Status is available.
type DeliveryOrder struct {
	ID              int64     `json:"id"`
	RequestID       *int64    `json:"request_id,omitempty"`
	VendorName      string    `json:"vendor_name"`
	PickupAddress   string    `json:"pickup_address"`
	DeliveryAddress string    `json:"delivery_address"`
	DeliveryType    string    `json:"delivery_type"`
	IsQuick         bool      `json:"is_quick"`
	Status          string    `json:"status"`
	DriverID        *int64    `json:"driver_id,omitempty"`
	DeliveryTime    *string   `json:"delivery_time,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Order statuses, in lifecycle order.
const (
	OrderStatusAvailable        = "available"
	OrderStatusAccepted         = "accepted"
	OrderStatusOutForDelivery   = "out_for_delivery"
	OrderStatusDeliveryComplete = "delivery_complete"
)

var orderLifecycle = []string{
	OrderStatusAvailable,
	OrderStatusAccepted,
	OrderStatusOutForDelivery,
	OrderStatusDeliveryComplete,
}

// NextOrderStatus returns the status that follows from, or "" if from is
// terminal or unknown.
func NextOrderStatus(from string) string {
	for i, s := range orderLifecycle[:len(orderLifecycle)-1] {
		if s == from {
			return orderLifecycle[i+1]
		}
	}
	return ""
}

// PreviousOrderStatus returns the only status from which to can be reached,
// or "" if to is the initial status or unknown.
func PreviousOrderStatus(to string) string {
	for i, s := range orderLifecycle[1:] {
		if s == to {
			return orderLifecycle[i]
		}
	}
	return ""
}

// DriverAdvanceable reports whether a driver may move an order into status
// with an explicit advance. Claiming goes through accept instead.
func DriverAdvanceable(status string) bool {
	return status == OrderStatusOutForDelivery || status == OrderStatusDeliveryComplete
}
