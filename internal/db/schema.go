package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL CHECK (role IN ('supplier', 'vendor', 'driver')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS inventory (
    id                 INTEGER PRIMARY KEY,
    supplier_id        INTEGER NOT NULL REFERENCES users(id),
    item_name          TEXT NOT NULL,
    quantity_available INTEGER NOT NULL CHECK (quantity_available >= 0)
);

CREATE INDEX IF NOT EXISTS idx_inventory_supplier ON inventory(supplier_id);

CREATE TABLE IF NOT EXISTS material_requests (
    id               INTEGER PRIMARY KEY,
    batch_ref        TEXT NOT NULL,
    item_name        TEXT NOT NULL,
    quantity         INTEGER NOT NULL CHECK (quantity > 0),
    unit             TEXT NOT NULL DEFAULT '',
    vendor_id        INTEGER NOT NULL REFERENCES users(id),
    delivery_type    TEXT NOT NULL,
    delivery_address TEXT NOT NULL,
    status           TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'completed')),
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_material_requests_status ON material_requests(status);
CREATE INDEX IF NOT EXISTS idx_material_requests_vendor ON material_requests(vendor_id);
CREATE INDEX IF NOT EXISTS idx_material_requests_batch ON material_requests(batch_ref);

CREATE TABLE IF NOT EXISTS delivery_orders (
    id               INTEGER PRIMARY KEY,
    request_id       INTEGER REFERENCES material_requests(id) ON DELETE SET NULL,
    vendor_name      TEXT NOT NULL,
    pickup_address   TEXT NOT NULL,
    delivery_address TEXT NOT NULL,
    delivery_type    TEXT NOT NULL,
    is_quick         INTEGER NOT NULL DEFAULT 0 CHECK (is_quick IN (0, 1)),
    status           TEXT NOT NULL DEFAULT 'available'
                     CHECK (status IN ('available', 'accepted', 'out_for_delivery', 'delivery_complete')),
    driver_id        INTEGER REFERENCES users(id),
    delivery_time    TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((status = 'available') = (driver_id IS NULL)),
    CHECK ((status = 'available') = (delivery_time IS NULL))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_delivery_orders_request ON delivery_orders(request_id);
CREATE INDEX IF NOT EXISTS idx_delivery_orders_available ON delivery_orders(status, is_quick, id);
CREATE INDEX IF NOT EXISTS idx_delivery_orders_driver ON delivery_orders(driver_id, status);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
