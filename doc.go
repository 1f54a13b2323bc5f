// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the POS back-office API server.

The server backs the store's admin dashboard: sign-in with a JWT session,
PIN confirmation for sensitive screens, sales and catalogue statistics over
today, last week, and last month, and management of products, orders, and
the admin account.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=pos.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string or SQLite file
  - JWT_SECRET (--jwt-secret): token signing secret, at least 32 characters

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - CONFIG_FILE (-c): YAML file with the same keys
  - REDIS_ADDR: share revoked sessions through Redis
  - KAFKA_BROKERS, KAFKA_TOPIC: publish domain events
  - ADMIN_USERNAME, ADMIN_PASSWORD, ADMIN_PIN: seed the admin account

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, stats, products, orders, admin)
  - router: route table on chi with auth, CORS, rate limit, and metrics
  - timewindow, stats: time frame resolution and dashboard SQL
  - middleware: request ids, logging, auth guard, JSON helpers
  - models: Request/response types
  - auth: JWT sessions, bcrypt secrets, order references
  - db: connections, schema, admin seed
  - sessions, events, metrics: Redis, Kafka, and Prometheus integrations
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
