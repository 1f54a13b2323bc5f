// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/pos-backoffice/apperr"
	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/db"
	"github.com/danielhkuo/pos-backoffice/events"
	"github.com/danielhkuo/pos-backoffice/logging"
	"github.com/danielhkuo/pos-backoffice/middleware"
	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/timewindow"
	"github.com/danielhkuo/pos-backoffice/validation"
)

type OrderHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	events events.Publisher
}

func NewOrderHandler(db *sql.DB, cfg cliparse.Config, pub events.Publisher) *OrderHandler {
	return &OrderHandler{db: db, cfg: cfg, events: pub}
}

// List handles GET /api/orders. Each order carries its line items as
// "name (qty), name (qty)".
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT o.id, o.user_id, o.order_date, o.status, o.total, o.in_sales_report,
		       op.product_id, op.name, op.quantity
		FROM orders o
		LEFT JOIN ordered_products op ON o.id = op.order_id
		WHERE o.in_sales_report = TRUE
		ORDER BY o.order_date DESC, o.id DESC, op.id ASC
	`)
	if err != nil {
		logger.Error("failed to query orders", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while fetching orders")
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	var items []models.OrderedProduct
	flush := func() {
		if len(orders) > 0 {
			orders[len(orders)-1].OrderedProducts = summarizeItems(items)
		}
		items = items[:0]
	}

	for rows.Next() {
		var o models.Order
		var productID, quantity sql.NullInt64
		var itemName sql.NullString
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.Status, &o.Total, &o.InSalesReport,
			&productID, &itemName, &quantity); err != nil {
			logger.Error("failed to scan order", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while fetching orders")
			return
		}
		if len(orders) == 0 || orders[len(orders)-1].ID != o.ID {
			flush()
			orders = append(orders, o)
		}
		if itemName.Valid {
			items = append(items, models.OrderedProduct{
				OrderID:   o.ID,
				ProductID: productID.Int64,
				Name:      itemName.String,
				Quantity:  int(quantity.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		logger.Error("failed to iterate orders", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while fetching orders")
		return
	}
	flush()

	middleware.JSONResponse(w, http.StatusOK, orders)
}

// summarizeItems renders line items as "Name (qty), Name (qty)".
func summarizeItems(items []models.OrderedProduct) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s (%d)", it.Name, it.Quantity)
	}
	return strings.Join(parts, ", ")
}

// UpdateStatus handles PUT /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validation.Struct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.setStatus(r.Context(), id, req.Status); err != nil {
		h.fail(w, r, err, "Error updating order status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OrderStatusResponse{
		Message: "Order status updated successfully",
		Status:  req.Status,
	})
}

// Cancel handles PUT /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	if err := h.setStatus(r.Context(), id, models.StatusCancelled); err != nil {
		h.fail(w, r, err, "Error cancelling order")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OrderStatusResponse{
		Message: "Order cancelled successfully",
		Status:  models.StatusCancelled,
	})
}

// Reschedule handles PUT /api/orders/{id}. order_date is YYYY-MM-DD (local
// midnight) or RFC3339, stored as local wall-clock time.
func (h *OrderHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req models.RescheduleOrderRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validation.Struct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	orderDate, err := parseOrderDate(req.OrderDate)
	if err != nil {
		h.fail(w, r, err, "Invalid order_date")
		return
	}

	err = h.update(r.Context(), "UPDATE orders SET order_date = $1 WHERE id = $2", db.Timestamp(orderDate), id)
	if err != nil {
		h.fail(w, r, err, "Error updating order date")
		return
	}

	auditLogger(r.Context()).Info("order rescheduled", "order_id", id, "order_date", orderDate)
	publish(r.Context(), h.events, models.EventOrderRescheduled, id, map[string]any{
		"order_date": orderDate.Format(time.RFC3339),
	})

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Order date updated successfully"})
}

// RemoveFromSalesReport handles DELETE /api/orders/{id}/salesreport. The
// order is hidden from reports, never deleted.
func (h *OrderHandler) RemoveFromSalesReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	err := h.update(r.Context(), "UPDATE orders SET in_sales_report = FALSE WHERE id = $1", id)
	if err != nil {
		h.fail(w, r, err, "Error removing order from sales report")
		return
	}

	auditLogger(r.Context()).Info("order removed from sales report", "order_id", id)
	publish(r.Context(), h.events, models.EventOrderRemovedReport, id, nil)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Order removed from sales report successfully"})
}

func (h *OrderHandler) setStatus(ctx context.Context, id int64, status string) error {
	if err := h.update(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id); err != nil {
		return err
	}
	auditLogger(ctx).Info("order status changed", "order_id", id, "status", status)
	publish(ctx, h.events, models.EventOrderStatusChanged, id, map[string]any{"status": status})
	return nil
}

// update runs a single-row UPDATE and returns apperr.ErrNotFound when no row matched.
func (h *OrderHandler) update(ctx context.Context, query string, args ...any) error {
	res, err := h.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}
	found, err := affected(res)
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if !found {
		return apperr.NotFound("Order not found")
	}
	return nil
}

func (h *OrderHandler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("order update failed", "path", r.URL.Path, "error", err)
	}
	middleware.ErrorResponse(w, status, apperr.PublicMessage(err, fallback))
}

func parseOrderDate(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(timewindow.DateLayout, raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(time.Local), nil
	}
	return time.Time{}, apperr.Invalid("order_date must be YYYY-MM-DD or RFC3339")
}
