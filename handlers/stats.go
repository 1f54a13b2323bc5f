// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/logging"
	"github.com/danielhkuo/pos-backoffice/middleware"
	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/stats"
	"github.com/danielhkuo/pos-backoffice/timewindow"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{db: db, cfg: cfg, now: time.Now}
}

// WithClock sets the clock that time windows are resolved against.
func (h *StatsHandler) WithClock(now func() time.Time) *StatsHandler {
	h.now = now
	return h
}

func (h *StatsHandler) window(r *http.Request) timewindow.Window {
	frame := timewindow.ParseFrame(r.URL.Query().Get("timeFrame"))
	return timewindow.Resolve(frame, h.now())
}

func (h *StatsHandler) scalar(ctx context.Context, q stats.Query, dest any) error {
	return h.db.QueryRowContext(ctx, q.SQL, q.Args...).Scan(dest)
}

// SalesData handles GET /api/sales-data?timeFrame=
func (h *StatsHandler) SalesData(w http.ResponseWriter, r *http.Request) {
	window := h.window(r)
	logger := logging.FromContext(r.Context()).With("window", window.String())

	var resp models.SalesDataResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return h.scalar(ctx, stats.SalesTotal(window), &resp.PeriodSales) })
	g.Go(func() error { return h.scalar(ctx, stats.OrderCount(window), &resp.TotalOrders) })
	g.Go(func() error { return h.scalar(ctx, stats.DistinctCustomers(window), &resp.TotalCustomers) })

	if err := g.Wait(); err != nil {
		logger.Error("failed to fetch sales data", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching sales data")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// RatedProductsCount handles GET /api/rated-products-count?timeFrame=
func (h *StatsHandler) RatedProductsCount(w http.ResponseWriter, r *http.Request) {
	window := h.window(r)

	var resp models.RatedProductsCountResponse
	if err := h.scalar(r.Context(), stats.RatedProducts(window), &resp.RatedProductsCount); err != nil {
		logging.FromContext(r.Context()).Error("failed to count rated products", "window", window.String(), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching rated products count")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// TopProducts handles GET /api/top-products
func (h *StatsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	q := stats.TopProducts(stats.MaxTopProducts)

	rows, err := h.db.QueryContext(r.Context(), q.SQL, q.Args...)
	if err != nil {
		logger.Error("failed to query top products", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching top products")
		return
	}
	defer rows.Close()

	products := make([]models.TopProduct, 0, stats.MaxTopProducts)
	for rows.Next() {
		var p models.TopProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL, &p.Rating, &p.Sold); err != nil {
			logger.Error("failed to scan top product", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching top products")
			return
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("failed to iterate top products", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching top products")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, products)
}

// TotalProducts handles GET /api/total-products
func (h *StatsHandler) TotalProducts(w http.ResponseWriter, r *http.Request) {
	var resp models.TotalProductsResponse
	if err := h.scalar(r.Context(), stats.TotalProducts(), &resp.TotalProducts); err != nil {
		logging.FromContext(r.Context()).Error("failed to count products", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching total products")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// TotalStock handles GET /api/total-stock
func (h *StatsHandler) TotalStock(w http.ResponseWriter, r *http.Request) {
	var resp models.TotalStockResponse
	if err := h.scalar(r.Context(), stats.TotalStock(), &resp.TotalStock); err != nil {
		logging.FromContext(r.Context()).Error("failed to sum stock", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching total stock")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SalesReport handles GET /api/sales-report
func (h *StatsHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, user_id, order_date, status, total
		FROM orders
		WHERE in_sales_report = TRUE
		ORDER BY order_date DESC, id DESC
	`)
	if err != nil {
		logger.Error("failed to query sales report", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while fetching sales report data")
		return
	}
	defer rows.Close()

	report := []models.SalesReportRow{}
	for rows.Next() {
		var row models.SalesReportRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.OrderDate, &row.Status, &row.Total); err != nil {
			logger.Error("failed to scan sales report row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while fetching sales report data")
			return
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		logger.Error("failed to iterate sales report", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while fetching sales report data")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}
