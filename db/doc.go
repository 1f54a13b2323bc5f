// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the relational store and manages its schema.

# Connections

Open selects the driver from cfg.DatabaseType (lib/pq for "postgres",
modernc.org/sqlite for "sqlite"), applies the pool limits, and pings:

	conn, err := db.Open(ctx, cfg)

The returned *sql.DB is the only shared resource; handlers receive it by
injection. Every statement commits on its own.

# Schema Creation

CreateSchema initializes all required tables for a dialect:

	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - products: catalogue; soft-deleted via the deleted flag
  - orders: created by the storefront; hidden from reports via in_sales_report
  - ordered_products: order line items
  - admin: singleton account (id = 1), bcrypt-hashed password and pin
  - product_ratings: rating events, counted per time window

# Relationships

	orders 1──* ordered_products *──1 products
	products 1──* product_ratings

# Admin Seed

SeedAdmin creates the admin row from ADMIN_USERNAME, ADMIN_PASSWORD, and
ADMIN_PIN when the table is empty.

# Errors

IsUniqueViolation recognizes unique-constraint failures from both drivers.
*/
package db
