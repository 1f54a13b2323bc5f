// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/pos-backoffice/auth"
	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/events"
	"github.com/danielhkuo/pos-backoffice/logging"
	"github.com/danielhkuo/pos-backoffice/middleware"
	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/validation"
)

// AdminHandler reads and updates the singleton admin account (id = 1).
type AdminHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	events events.Publisher
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config, pub events.Publisher) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, events: pub}
}

// GetAdminData handles GET /api/admin-data. Password and PIN are stored as
// bcrypt hashes, so both come back as a fixed-length "********" whatever the
// length of the original secret.
func (h *AdminHandler) GetAdminData(w http.ResponseWriter, r *http.Request) {
	var data models.AdminData
	err := h.db.QueryRowContext(r.Context(), `
		SELECT full_name, username, password, pin, role FROM admin WHERE id = $1
	`, models.AdminID).Scan(&data.FullName, &data.Username, &data.Password, &data.Pin, &data.Role)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Admin not found")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to query admin data", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while fetching admin data")
		return
	}

	data.Password = auth.Mask(data.Password)
	data.Pin = auth.Mask(data.Pin)

	middleware.JSONResponse(w, http.StatusOK, data)
}

// GetAdminName handles GET /api/admin-name
func (h *AdminHandler) GetAdminName(w http.ResponseWriter, r *http.Request) {
	var resp models.AdminNameResponse
	err := h.db.QueryRowContext(r.Context(), "SELECT full_name FROM admin WHERE id = $1", models.AdminID).Scan(&resp.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Admin not found")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to query admin name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while fetching admin name")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// UpdateAdmin handles PUT /api/update-admin. Name, username and role are
// always written; password and pin only when present in the body.
func (h *AdminHandler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	logger := auditLogger(r.Context())

	var req models.UpdateAdminRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validation.Struct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	query, args, err := buildAdminUpdate(req)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at most 72 bytes")
		return
	}
	if err != nil {
		logger.Error("failed to hash admin secret", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while updating admin data")
		return
	}

	res, err := h.db.ExecContext(r.Context(), query, args...)
	if err != nil {
		logger.Error("failed to update admin", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while updating admin data")
		return
	}
	found, err := affected(res)
	if err != nil {
		logger.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while updating admin data")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Admin not found")
		return
	}

	logger.Info("admin updated",
		"password_changed", req.Password != "",
		"pin_changed", req.Pin != "",
	)
	publish(r.Context(), h.events, models.EventAdminUpdated, models.AdminID, map[string]any{
		"password_changed": req.Password != "",
		"pin_changed":      req.Pin != "",
	})

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Admin data updated successfully"})
}

// buildAdminUpdate appends the password and pin columns only when supplied.
func buildAdminUpdate(req models.UpdateAdminRequest) (string, []any, error) {
	sets := []string{"full_name = $1", "username = $2", "role = $3"}
	args := []any{req.FullName, req.Username, req.Role}

	if req.Password != "" {
		hash, err := auth.HashSecret(req.Password)
		if err != nil {
			return "", nil, err
		}
		args = append(args, hash)
		sets = append(sets, fmt.Sprintf("password = $%d", len(args)))
	}
	if req.Pin != "" {
		hash, err := auth.HashSecret(req.Pin)
		if err != nil {
			return "", nil, err
		}
		args = append(args, hash)
		sets = append(sets, fmt.Sprintf("pin = $%d", len(args)))
	}

	args = append(args, models.AdminID)
	query := fmt.Sprintf("UPDATE admin SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args, nil
}
