// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/danielhkuo/pos-backoffice/auth"
	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/events"
	"github.com/danielhkuo/pos-backoffice/handlers"
	"github.com/danielhkuo/pos-backoffice/metrics"
	"github.com/danielhkuo/pos-backoffice/middleware"
	"github.com/danielhkuo/pos-backoffice/sessions"
)

// Route is one entry of the route table.
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	Protected bool
	// RateLimited routes are throttled per client IP when SignInRateLimit > 0.
	RateLimited bool
}

// Handlers groups the handler sets the route table dispatches to.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Admin    *handlers.AdminHandler
	Stats    *handlers.StatsHandler
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
}

// Services are the optional collaborators of the router. Zero values fall
// back to in-process implementations.
type Services struct {
	Sessions sessions.Store
	Events   events.Publisher
	Metrics  *metrics.Metrics
	// Now is the clock used to resolve stats time windows.
	Now func() time.Time
}

// Routes returns the full route table.
func Routes(h Handlers) []Route {
	return []Route{
		// Authentication
		{Method: http.MethodGet, Pattern: "/api/check-auth", Handler: h.Auth.CheckAuth},
		{Method: http.MethodGet, Pattern: "/api/logout", Handler: h.Auth.Logout},
		{Method: http.MethodPost, Pattern: "/api/logout", Handler: h.Auth.Logout},
		{Method: http.MethodPost, Pattern: "/api/signin", Handler: h.Auth.SignIn, RateLimited: true},
		{Method: http.MethodPost, Pattern: "/api/validate-pin", Handler: h.Auth.ValidatePin, RateLimited: true},

		// Admin account
		{Method: http.MethodGet, Pattern: "/api/admin-name", Handler: h.Admin.GetAdminName},
		{Method: http.MethodGet, Pattern: "/api/admin-data", Handler: h.Admin.GetAdminData, Protected: true},
		{Method: http.MethodPut, Pattern: "/api/update-admin", Handler: h.Admin.UpdateAdmin, Protected: true},

		// Dashboard statistics
		{Method: http.MethodGet, Pattern: "/api/sales-data", Handler: h.Stats.SalesData},
		{Method: http.MethodGet, Pattern: "/api/rated-products-count", Handler: h.Stats.RatedProductsCount},
		{Method: http.MethodGet, Pattern: "/api/top-products", Handler: h.Stats.TopProducts},
		{Method: http.MethodGet, Pattern: "/api/total-products", Handler: h.Stats.TotalProducts},
		{Method: http.MethodGet, Pattern: "/api/total-stock", Handler: h.Stats.TotalStock},
		{Method: http.MethodGet, Pattern: "/api/sales-report", Handler: h.Stats.SalesReport, Protected: true},

		// Products
		{Method: http.MethodGet, Pattern: "/api/products", Handler: h.Products.List, Protected: true},
		{Method: http.MethodPost, Pattern: "/api/products", Handler: h.Products.Add, Protected: true},
		{Method: http.MethodPut, Pattern: "/api/products/{id}", Handler: h.Products.Update, Protected: true},
		{Method: http.MethodDelete, Pattern: "/api/products/{id}", Handler: h.Products.Delete, Protected: true},

		// Orders
		{Method: http.MethodGet, Pattern: "/api/orders", Handler: h.Orders.List, Protected: true},
		{Method: http.MethodPut, Pattern: "/api/orders/{id}", Handler: h.Orders.Reschedule, Protected: true},
		{Method: http.MethodPut, Pattern: "/api/orders/{id}/status", Handler: h.Orders.UpdateStatus, Protected: true},
		{Method: http.MethodPut, Pattern: "/api/orders/{id}/cancel", Handler: h.Orders.Cancel, Protected: true},
		{Method: http.MethodDelete, Pattern: "/api/orders/{id}/salesreport", Handler: h.Orders.RemoveFromSalesReport, Protected: true},
	}
}

// NewRouter builds the handlers and registers every route on a chi router.
func NewRouter(db *sql.DB, cfg cliparse.Config, svc Services) *chi.Mux {
	if svc.Sessions == nil {
		svc.Sessions = sessions.NewMemoryStore()
	}
	if svc.Events == nil {
		svc.Events = events.Nop{}
	}
	if svc.Metrics == nil {
		svc.Metrics = metrics.New()
	}
	if svc.Now == nil {
		svc.Now = time.Now
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	pub := events.NewInstrumented(svc.Events, svc.Metrics)

	h := Handlers{
		Auth:     handlers.NewAuthHandler(db, cfg, tokens, svc.Sessions),
		Admin:    handlers.NewAdminHandler(db, cfg, pub),
		Stats:    handlers.NewStatsHandler(db, cfg).WithClock(svc.Now),
		Products: handlers.NewProductHandler(db, cfg, pub),
		Orders:   handlers.NewOrderHandler(db, cfg, pub),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(svc.Metrics.Middleware)
	r.Use(middleware.WithLogging)

	requireAuth := middleware.RequireAuth(tokens, svc.Sessions)

	for _, rt := range Routes(h) {
		var chain chi.Middlewares
		if rt.RateLimited && cfg.SignInRateLimit > 0 {
			chain = append(chain, rateLimit(cfg.SignInRateLimit))
		}
		if rt.Protected {
			chain = append(chain, requireAuth)
		}
		r.With(chain...).Method(rt.Method, rt.Pattern, rt.Handler)
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", svc.Metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		if allowed := allowedMethods(r, req.URL.Path); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		middleware.ErrorResponse(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", req.Method))
	})

	return r
}

// rateLimit throttles each client IP to perMinute requests.
func rateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			middleware.ErrorResponse(w, http.StatusTooManyRequests, "Too many attempts, please try again later")
		}),
	)
}

var methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

// allowedMethods lists the methods registered for path.
func allowedMethods(routes chi.Routes, path string) []string {
	var allowed []string
	for _, m := range methods {
		if routes.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}
