// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the POS back-office API.

# Route Registration

NewRouter builds every handler and registers the route table on a chi router:

	mux := router.NewRouter(db, cfg, router.Services{
		Sessions: store,
		Events:   publisher,
		Metrics:  m,
	})

Zero-valued services fall back to an in-memory session store, a no-op
publisher, and a fresh metrics registry.

# Route Table

Routes returns the table as data; each entry names its method, pattern,
handler, and whether a bearer token is required.

Public:

	GET  /api/check-auth
	GET  /api/logout, POST /api/logout
	POST /api/signin               - rate limited per IP
	POST /api/validate-pin         - rate limited per IP; checks the token itself
	GET  /api/admin-name
	GET  /api/sales-data?timeFrame=
	GET  /api/rated-products-count?timeFrame=
	GET  /api/top-products
	GET  /api/total-products
	GET  /api/total-stock

Protected (Authorization: Bearer <token>):

	GET    /api/admin-data
	PUT    /api/update-admin
	GET    /api/sales-report
	GET    /api/products?page=&limit=
	POST   /api/products
	PUT    /api/products/{id}
	DELETE /api/products/{id}
	GET    /api/orders
	PUT    /api/orders/{id}
	PUT    /api/orders/{id}/status
	PUT    /api/orders/{id}/cancel
	DELETE /api/orders/{id}/salesreport

Operational:

	GET /health  - plain "OK"
	GET /metrics - Prometheus exposition

# Middleware

Every request passes RequestID, Recoverer, CORS, metrics, and request
logging in that order. Unknown paths answer 404 {"error":"Route not found"};
a known path with the wrong method answers 405 with an Allow header.
*/
package router
