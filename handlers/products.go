// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/pos-backoffice/auth"
	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/db"
	"github.com/danielhkuo/pos-backoffice/events"
	"github.com/danielhkuo/pos-backoffice/logging"
	"github.com/danielhkuo/pos-backoffice/middleware"
	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/validation"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// orderIDAttempts bounds regeneration when a new order reference collides.
	orderIDAttempts = 3
)

type ProductHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	events events.Publisher
}

func NewProductHandler(db *sql.DB, cfg cliparse.Config, pub events.Publisher) *ProductHandler {
	return &ProductHandler{db: db, cfg: cfg, events: pub}
}

// List handles GET /api/products?page=&limit=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	page, ok := positiveQueryInt(r, "page", 1)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	limit, ok := positiveQueryInt(r, "limit", defaultPageSize)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	limit = min(limit, maxPageSize)

	var totalItems int
	if err := h.db.QueryRowContext(r.Context(), "SELECT COUNT(*) FROM products WHERE deleted = FALSE").Scan(&totalItems); err != nil {
		logger.Error("failed to count products", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, name, description, price, image_url, stock_quantity, category,
		       supplier_id, order_id, rating, deleted, created_at
		FROM products
		WHERE deleted = FALSE
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, (page-1)*limit)
	if err != nil {
		logger.Error("failed to query products", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var supplierID sql.NullInt64
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.StockQuantity,
			&p.Category, &supplierID, &p.OrderID, &p.Rating, &p.Deleted, &p.CreatedAt)
		if err != nil {
			logger.Error("failed to scan product", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching products")
			return
		}
		if supplierID.Valid {
			p.SupplierID = &supplierID.Int64
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("failed to iterate products", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProductListResponse{
		Products:    products,
		CurrentPage: page,
		TotalPages:  (totalItems + limit - 1) / limit,
		TotalItems:  totalItems,
	})
}

// Add handles POST /api/products
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	logger := auditLogger(r.Context())

	var req models.ProductRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validation.Struct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var id int64
	var orderID string
	for attempt := 1; ; attempt++ {
		var err error
		orderID, err = auth.GenerateOrderID()
		if err != nil {
			logger.Error("failed to generate order ID", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Error adding product")
			return
		}

		err = h.db.QueryRowContext(r.Context(), `
			INSERT INTO products (name, description, price, image_url, stock_quantity, category, supplier_id, order_id, rating, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, req.Name, req.Description, req.Price, req.ImageURL, req.StockQuantity, req.Category,
			req.SupplierID, orderID, req.Rating, db.Timestamp(time.Now())).Scan(&id)
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err) && attempt < orderIDAttempts {
			logger.Warn("order ID collision, regenerating", "order_id", orderID, "attempt", attempt)
			continue
		}
		logger.Error("failed to insert product", "error", err, "attempt", attempt)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error adding product")
		return
	}

	logger.Info("product added", "product_id", id, "order_id", orderID)
	publish(r.Context(), h.events, models.EventProductAdded, id, map[string]any{
		"name":     req.Name,
		"order_id": orderID,
	})

	middleware.JSONResponse(w, http.StatusCreated, models.AddProductResponse{
		Message: "Product added successfully",
		ID:      id,
		OrderID: orderID,
	})
}

// Update handles PUT /api/products/{id}. Every editable column is overwritten.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := auditLogger(r.Context())

	id, ok := pathID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.ProductRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validation.Struct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.db.ExecContext(r.Context(), `
		UPDATE products
		SET name = $1, description = $2, price = $3, image_url = $4, stock_quantity = $5,
		    category = $6, supplier_id = $7, rating = $8
		WHERE id = $9
	`, req.Name, req.Description, req.Price, req.ImageURL, req.StockQuantity,
		req.Category, req.SupplierID, req.Rating, id)
	if err != nil {
		logger.Error("failed to update product", "product_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error updating product")
		return
	}
	found, err := affected(res)
	if err != nil {
		logger.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error updating product")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Product not found")
		return
	}

	logger.Info("product updated", "product_id", id)
	publish(r.Context(), h.events, models.EventProductUpdated, id, nil)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Product updated successfully"})
}

// Delete handles DELETE /api/products/{id}. The row is kept and flagged
// deleted; repeating the call succeeds.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := auditLogger(r.Context())

	id, ok := pathID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	res, err := h.db.ExecContext(r.Context(), "UPDATE products SET deleted = TRUE WHERE id = $1", id)
	if err != nil {
		logger.Error("failed to delete product", "product_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error marking product as deleted")
		return
	}
	found, err := affected(res)
	if err != nil {
		logger.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error marking product as deleted")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Product not found")
		return
	}

	logger.Info("product deleted", "product_id", id)
	publish(r.Context(), h.events, models.EventProductDeleted, id, nil)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Product marked as deleted successfully"})
}

func positiveQueryInt(r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
