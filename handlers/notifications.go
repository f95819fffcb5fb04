// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/budget-intake/middleware"
	"github.com/danielhkuo/budget-intake/notify"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type NotificationHandler struct {
	hub *notify.Hub
}

func NewNotificationHandler(hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

// List handles GET /notifications?limit=N
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxNotificationLimit)
	}

	actor := actorFrom(r)
	notes, err := h.hub.List(r.Context(), actor.UserID, actor.Role, limit)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, notes)
}

// Stream handles GET /notifications/ws
// Upgrades to a websocket and pushes notifications until the client leaves
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if err := h.hub.ServeWS(w, r, actor.UserID, actor.Role); err != nil {
		// The upgrader has already answered the handshake.
		slog.Warn("notification stream failed", "user_id", actor.UserID, "error", err)
	}
}
