// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the POS back-office API.

# Handler Types

Each handler is a struct holding the database pool and config:

  - AuthHandler: sign-in, check-auth, PIN validation, logout
  - StatsHandler: dashboard figures and the sales report
  - ProductHandler: catalogue listing and mutations
  - OrderHandler: order listing, status, date, and report visibility
  - AdminHandler: the singleton admin account

Mutating handlers also take an events.Publisher:

	products := handlers.NewProductHandler(db, cfg, publisher)

# Time Windows

Stats endpoints read timeFrame from the query string and resolve it with
the timewindow package against the handler clock. WithClock pins the clock:

	stats := handlers.NewStatsHandler(db, cfg).WithClock(func() time.Time { return now })

# Errors

Every failure is written as {"error": "<message>"}. Store errors are logged
and answered with a generic 500 message.

# Events

Successful mutations publish a models.Event. Publishing is best effort and
never changes the response.
*/
package handlers
