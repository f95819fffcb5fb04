// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	r.HandleFunc("/clients", middleware.WithLogging(handler)).Methods("POST")

Logs request start (request_id, method, path, remote) and completion
(status, duration_ms). The request id is taken from X-Request-ID or
generated, and echoed in the response.

# Authentication and Roles

A Guard checks the bearer token and the access policy before the handler:

	guard := middleware.NewGuard(secret, policy)
	r.HandleFunc("/clients", guard.RequireRoles(auth.RouteListClients, h.List))

Missing or invalid tokens get 401, roles outside the policy get 403.
Handlers read the caller with ClaimsFromContext.

# Rate Limiting

Public intake routes are throttled per client IP:

	limiter := middleware.NewRateLimiter(5, 10)
	r.HandleFunc("/clients", limiter.Limit(h.Create))

# CORS Middleware

	handler := middleware.CORS([]string{"https://intake.example.com"})(router)

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.WriteError(w, r, err) // status from the apperr kind

# Client IP Extraction

	ip := middleware.GetClientIP(r) // honours X-Forwarded-For and X-Real-IP
	ip := middleware.RemoteIP(r)    // connected peer only

The rate limiter keys on RemoteIP unless TrustForwarded(true) is set.
*/
package middleware
