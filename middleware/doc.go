// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request IDs

RequestID reuses an incoming X-Request-ID or generates a uuid, stores it in
the context (see logging.FromContext), and echoes it on the response.

# Request Logging

Wrap handlers with request logging:

	r.Use(middleware.RequestID, middleware.WithLogging)

Logs request start (method, path, query, remote) before dispatch and
completion (status, duration_ms) afterwards.

# Authentication

RequireAuth guards protected routes with a bearer token:

	r.With(middleware.RequireAuth(tokens, store)).Get("/api/orders", h.List)

Missing, malformed, expired, and revoked tokens get 401 {"error":"Unauthorized"}.
Handlers read the verified claims with ClaimsFromContext. Authenticate
performs the same check without writing a response.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Error bodies are always {"error": "<message>"}.

Parse JSON request bodies:

	var req models.ProductRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Encoding and decoding use goccy/go-json.

# Client IP

GetClientIP checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
