// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/danielhkuo/pos-backoffice/auth"
	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/logging"
	"github.com/danielhkuo/pos-backoffice/middleware"
	"github.com/danielhkuo/pos-backoffice/models"
	"github.com/danielhkuo/pos-backoffice/sessions"
	"github.com/danielhkuo/pos-backoffice/validation"
)

type AuthHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	tokens   *auth.TokenManager
	sessions sessions.Store
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config, tokens *auth.TokenManager, store sessions.Store) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, tokens: tokens, sessions: store}
}

// SignIn handles POST /api/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req models.SignInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validation.Struct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	logger.Info("signin attempt", "username", req.Username)

	var adminID int64
	var username, passwordHash string
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, username, password FROM admin WHERE username = $1
	`, req.Username).Scan(&adminID, &username, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		logger.Info("signin rejected", "reason", "unknown user")
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		logger.Error("failed to query admin", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred during signin")
		return
	}

	if !auth.CheckSecret(passwordHash, req.Password) {
		logger.Info("signin rejected", "reason", "password mismatch")
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, claims, err := h.tokens.Issue(adminID)
	if err != nil {
		logger.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred during signin")
		return
	}

	logger.Info("signin successful", "admin_id", adminID)

	middleware.JSONResponse(w, http.StatusOK, models.SignInResponse{
		Success:   true,
		Message:   "Signin successful",
		Username:  username,
		Token:     token,
		ExpiresIn: h.tokens.ExpiresIn(claims),
	})
}

// CheckAuth handles GET /api/check-auth. It always answers 200; a missing,
// invalid, expired, or revoked token reports isAuthenticated=false.
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Authenticate(r, h.tokens, h.sessions)
	if err != nil {
		if !errors.Is(err, auth.ErrNoToken) {
			logging.FromContext(r.Context()).Debug("token rejected", "error", err)
		}
		middleware.JSONResponse(w, http.StatusOK, models.CheckAuthResponse{})
		return
	}

	expiresIn := h.tokens.ExpiresIn(claims)
	middleware.JSONResponse(w, http.StatusOK, models.CheckAuthResponse{
		IsAuthenticated:          true,
		UsernamePasswordVerified: true,
		ExpiresIn:                &expiresIn,
	})
}

// ValidatePin handles POST /api/validate-pin
func (h *AuthHandler) ValidatePin(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	claims, err := middleware.Authenticate(r, h.tokens, h.sessions)
	switch {
	case errors.Is(err, auth.ErrNoToken):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No token provided")
		return
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
		return
	case err != nil:
		logger.Error("failed to verify session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while validating PIN")
		return
	}

	var req models.ValidatePinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validation.Struct(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var pinHash string
	err = h.db.QueryRowContext(r.Context(), "SELECT pin FROM admin WHERE id = $1", claims.UserID).Scan(&pinHash)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Admin not found")
		return
	}
	if err != nil {
		logger.Error("failed to query admin pin", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "An error occurred while validating PIN")
		return
	}

	if !auth.CheckSecret(pinHash, req.Pin) {
		logger.Info("pin rejected", "admin_id", claims.UserID)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid PIN")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "PIN validated successfully"})
}

// Logout handles GET and POST /api/logout. A valid bearer token is revoked
// for the rest of its lifetime; the token cookie is always cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	if token := auth.BearerToken(r.Header.Get("Authorization")); token != "" {
		if claims, err := h.tokens.Parse(token); err == nil {
			ttl := time.Duration(h.tokens.ExpiresIn(claims)) * time.Second
			if err := h.sessions.Revoke(r.Context(), claims.ID, ttl); err != nil {
				logger.Error("failed to revoke token", "error", err)
			} else {
				logger.Info("session revoked", "admin_id", claims.UserID)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})

	middleware.JSONResponse(w, http.StatusOK, models.LogoutResponse{
		Success: true,
		Message: "Logout successful",
	})
}
