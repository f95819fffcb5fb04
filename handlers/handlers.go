// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/danielhkuo/budget-intake/middleware"
	"github.com/danielhkuo/budget-intake/service"
)

// actorFrom returns the caller resolved by the auth guard. Public routes
// get the zero Actor.
func actorFrom(r *http.Request) service.Actor {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return service.Actor{}
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role}
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func invalidJSON(w http.ResponseWriter) {
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
}
