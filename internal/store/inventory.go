package store

import (
	"context"
	"fmt"

	"github.com/erazemk/supplychain/internal/model"
)

// AddInventoryItem records stock for a supplier.
func AddInventoryItem(ctx context.Context, q Querier, supplierID int64, itemName string, quantity int) (*model.InventoryItem, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	id, err := Insert(ctx, q, "inventory", []Field{
		F("supplier_id", supplierID),
		F("item_name", itemName),
		F("quantity_available", quantity),
	})
	if err != nil {
		return nil, fmt.Errorf("adding inventory item: %w", err)
	}

	return &model.InventoryItem{
		ID:                id,
		SupplierID:        supplierID,
		ItemName:          itemName,
		QuantityAvailable: quantity,
	}, nil
}

// ListInventory returns a supplier's stock ordered by item name.
func ListInventory(ctx context.Context, q Querier, supplierID int64) ([]model.InventoryItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, supplier_id, item_name, quantity_available
		 FROM inventory
		 WHERE supplier_id = ?
		 ORDER BY item_name, id`, supplierID,
	)
	if err != nil {
		return nil, unavailable("listing inventory", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		var inv model.InventoryItem
		if err := rows.Scan(&inv.ID, &inv.SupplierID, &inv.ItemName, &inv.QuantityAvailable); err != nil {
			return nil, unavailable("scanning inventory", err)
		}
		items = append(items, inv)
	}
	return items, rows.Err()
}
