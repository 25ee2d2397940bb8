package workflow

import (
	"strings"

	"github.com/erazemk/supplychain/internal/model"
)

// DefaultPickupAddress is used when neither an option nor the pickup_address
// setting names one.
const DefaultPickupAddress = "Central Warehouse"

// urgentMarker flags an item as priority when it appears anywhere in the
// item name, in any case.
const urgentMarker = "urgent"

// Derive turns a confirmed material request into the delivery order drivers
// will see. It is called exactly once per request, at confirmation.
func Derive(req model.MaterialRequest, pickupAddress string) model.DeliveryOrder {
	if pickupAddress == "" {
		pickupAddress = DefaultPickupAddress
	}
	requestID := req.ID
	return model.DeliveryOrder{
		RequestID:       &requestID,
		VendorName:      req.VendorName,
		PickupAddress:   pickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryType:    req.DeliveryType,
		IsQuick:         IsUrgent(req.ItemName),
		Status:          model.OrderStatusAvailable,
	}
}

// IsUrgent reports whether an item name carries the urgency marker.
func IsUrgent(itemName string) bool {
	return strings.Contains(strings.ToLower(itemName), urgentMarker)
}
