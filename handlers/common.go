// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/pos-backoffice/events"
	"github.com/danielhkuo/pos-backoffice/logging"
	"github.com/danielhkuo/pos-backoffice/middleware"
	"github.com/danielhkuo/pos-backoffice/models"
)

const publishTimeout = 2 * time.Second

// pathID reads the {id} route parameter. Tests that call handlers directly
// set it with r.SetPathValue.
func pathID(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = r.PathValue("id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// auditLogger is the request logger tagged with the signed-in admin, for
// handlers behind RequireAuth.
func auditLogger(ctx context.Context) *slog.Logger {
	logger := logging.FromContext(ctx)
	if claims := middleware.ClaimsFromContext(ctx); claims != nil {
		logger = logger.With("admin_id", claims.UserID)
	}
	return logger
}

// publish emits a domain event. Failures are logged and never fail the request.
func publish(ctx context.Context, pub events.Publisher, eventType string, entityID int64, data map[string]any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := pub.Publish(ctx, models.Event{
		Type:       eventType,
		EntityID:   strconv.FormatInt(entityID, 10),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		logging.FromContext(ctx).Warn("failed to publish event", "type", eventType, "entity_id", entityID, "error", err)
	}
}

// affected reports whether res touched at least one row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
