// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
	"github.com/danielhkuo/budget-intake/validation"
)

// Notifier delivers a notification to its audience.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	pongWait   = 60 * time.Second
)

type subscriber struct {
	userID string
	role   models.Role
	send   chan []byte
}

func (s *subscriber) wants(n models.Notification) bool {
	if n.RecipientID != nil && *n.RecipientID == s.userID {
		return true
	}
	return n.Audience != "" && n.Audience == s.role
}

// Hub persists notifications and pushes them to connected websocket
// subscribers.
type Hub struct {
	repo     store.NotificationRepository
	upgrader websocket.Upgrader

	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

var _ Notifier = (*Hub)(nil)

// NewHub creates a Hub that stores notifications in repo.
func NewHub(repo store.NotificationRepository) *Hub {
	return &Hub{
		repo: repo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// Notify stores n and pushes it to every matching subscriber. A slow
// subscriber misses the push but still finds the stored row.
func (h *Hub) Notify(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = validation.NewID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	saved, err := h.repo.CreateNotification(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	payload, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.wants(saved) {
			continue
		}
		select {
		case sub.send <- payload:
		default:
			slog.Warn("dropping notification for slow subscriber",
				"notification_id", saved.ID,
				"user_id", sub.userID,
			)
		}
	}
	return nil
}

// List returns the most recent notifications visible to a user.
func (h *Hub) List(ctx context.Context, userID string, role models.Role, limit int) ([]models.Notification, error) {
	return h.repo.FindNotifications(ctx, userID, role, limit)
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) register(userID string, role models.Role) *subscriber {
	sub := &subscriber{userID: userID, role: role, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// ServeWS upgrades the request and streams notifications for the user until
// the connection closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string, role models.Role) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}

	sub := h.register(userID, role)
	slog.Info("notification subscriber connected", "user_id", userID, "role", role)

	done := make(chan struct{})
	go h.readLoop(conn, done)
	h.writeLoop(conn, sub, done)

	h.unregister(sub)
	conn.Close()
	slog.Info("notification subscriber disconnected", "user_id", userID)
	return nil
}

// readLoop discards client frames and closes done when the peer goes away.
func (h *Hub) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, sub *subscriber, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg := <-sub.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("notification write failed", "user_id", sub.userID, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
