// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/auth"
)

type claimsKey struct{}

// WithClaims returns a context carrying the authenticated caller.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the caller stored by Guard.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}

// Guard authenticates bearer tokens and enforces the access policy.
type Guard struct {
	secret []byte
	policy auth.Policy
}

func NewGuard(secret []byte, policy auth.Policy) *Guard {
	return &Guard{secret: secret, policy: policy}
}

// RequireRoles rejects requests without a valid token with 401, and callers
// whose role the policy does not allow on route with 403.
func (g *Guard) RequireRoles(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			WriteError(w, r, apperr.Unauthorized("missing bearer token"))
			return
		}

		claims, err := auth.ParseToken(token, g.secret)
		if err != nil {
			slog.Warn("token rejected", "path", r.URL.Path, "error", err)
			WriteError(w, r, apperr.Unauthorized("invalid or expired token"))
			return
		}

		if !g.policy.Allows(route, claims.Role) {
			slog.Warn("access denied",
				"route", route,
				"user_id", claims.UserID,
				"role", claims.Role,
			)
			WriteError(w, r, apperr.Forbidden("role not allowed"))
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

// bearerToken reads the Authorization header. Browsers cannot set headers
// on websocket handshakes, so upgrades may pass access_token instead.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get("access_token")
	}
	return ""
}
