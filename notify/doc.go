// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify delivers workflow notifications to role audiences and
// individual users.
//
// Every notification is stored first so that GET /notifications can list
// it later; connected clients of GET /notifications/ws additionally receive
// it as a JSON text frame. Delivery is best effort: callers log a failed
// Notify and carry on.
package notify
