package model

import "time"

// MaterialRequest is one item line a vendor asked for.
type MaterialRequest struct {
	ID              int64     `json:"id"`
	BatchRef        string    `json:"batch_ref"`
	ItemName        string    `json:"item_name"`
	Quantity        int       `json:"quantity"`
	Unit            string    `json:"unit,omitempty"`
	VendorID        int64     `json:"vendor_id"`
	DeliveryType    string    `json:"delivery_type"`
	DeliveryAddress string    `json:"delivery_address"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`

	// Joined fields (not always populated).
	VendorName string `json:"vendor_name,omitempty"`
}

// Request statuses. A rejected request is deleted, so it has no status.
const (
	RequestStatusPending   = "pending"
	RequestStatusConfirmed = "confirmed"
	RequestStatusCompleted = "completed"
)

// Delivery types offered to vendors.
const (
	DeliveryTypeHub  = "Lane Hub"
	DeliveryTypeDoor = "Door Delivery"
)

// NextRequestStatus returns the status that follows from, or "" if from is
// terminal or unknown.
func NextRequestStatus(from string) string {
	switch from {
	case RequestStatusPending:
		return RequestStatusConfirmed
	case RequestStatusConfirmed:
		return RequestStatusCompleted
	}
	return ""
}
