package model

// InventoryItem is stock held by a single supplier.
type InventoryItem struct {
	ID                int64  `json:"id"`
	SupplierID        int64  `json:"supplier_id"`
	ItemName          string `json:"item_name"`
	QuantityAvailable int    `json:"quantity_available"`
}
