// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Dialect names match cliparse.Config.DatabaseType.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB, dialect string) error {
	ddl, err := Schema(dialect)
	if err != nil {
		return err
	}
	// SQLite drivers do not always accept several statements per Exec.
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Schema returns the DDL for dialect.
func Schema(dialect string) (string, error) {
	var serial, now string
	switch dialect {
	case DialectPostgres:
		serial = "SERIAL PRIMARY KEY"
		now = "LOCALTIMESTAMP"
	case DialectSQLite:
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
		now = "(datetime('now', 'localtime'))"
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
	// Defaults are local wall-clock time, matching Timestamp.
	return strings.NewReplacer("{{serial}}", serial, "{{now}}", now).Replace(schema), nil
}

const schema = `
-- Products
CREATE TABLE IF NOT EXISTS products (
    id {{serial}},
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price NUMERIC(10, 2) NOT NULL DEFAULT 0,
    image_url TEXT NOT NULL DEFAULT '',
    stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
    category TEXT NOT NULL DEFAULT '',
    supplier_id INTEGER,
    order_id TEXT NOT NULL UNIQUE,
    rating NUMERIC(3, 2) NOT NULL DEFAULT 0,
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT {{now}}
);

CREATE INDEX IF NOT EXISTS idx_products_deleted ON products(deleted);

-- Orders
CREATE TABLE IF NOT EXISTS orders (
    id {{serial}},
    user_id INTEGER NOT NULL,
    order_date TIMESTAMP NOT NULL DEFAULT {{now}},
    status TEXT NOT NULL DEFAULT 'Order Placed' CHECK (status IN ('Order Placed', 'Processed', 'Shipped', 'Delivered', 'Cancelled')),
    total NUMERIC(10, 2) NOT NULL DEFAULT 0,
    in_sales_report BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

-- Order line items
CREATE TABLE IF NOT EXISTS ordered_products (
    id {{serial}},
    order_id INTEGER NOT NULL REFERENCES orders(id),
    product_id INTEGER NOT NULL REFERENCES products(id),
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL CHECK (quantity > 0)
);

CREATE INDEX IF NOT EXISTS idx_ordered_products_order_id ON ordered_products(order_id);
CREATE INDEX IF NOT EXISTS idx_ordered_products_product_id ON ordered_products(product_id);

-- Singleton admin account
CREATE TABLE IF NOT EXISTS admin (
    id INTEGER PRIMARY KEY,
    full_name TEXT NOT NULL,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    pin TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'admin'
);

-- Product ratings
CREATE TABLE IF NOT EXISTS product_ratings (
    id {{serial}},
    product_id INTEGER NOT NULL REFERENCES products(id),
    rating NUMERIC(3, 2) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT {{now}}
);

CREATE INDEX IF NOT EXISTS idx_product_ratings_created_at ON product_ratings(created_at);
`
