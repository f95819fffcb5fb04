// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth issues and verifies staff bearer tokens and holds the access
policy for protected routes.

# Tokens

Tokens are HS256 JWTs carrying the user id and role:

	token, expiresAt, err := auth.IssueToken(user, secret, 12*time.Hour, time.Now())
	claims, err := auth.ParseToken(token, secret)

ParseToken rejects tokens signed with another algorithm, another secret or
issuer, expired tokens, and tokens whose role is unknown. Every failure wraps
ErrInvalidToken.

# Access Policy

Each protected route has a name (RouteListClients, RouteDecideOvertime, ...)
and the policy lists the roles allowed to call it:

	policy := auth.DefaultPolicy()
	policy.Allows(auth.RouteApproveBudgetRequest, models.RolePreSale) // true

Deployments can override individual routes with a YAML file passed as
ACCESS_POLICY_FILE:

	routes:
	  clients.list: [admin, pre-sale]

Unknown route or role names in the file are rejected at startup. Routes that
are not listed keep their defaults.
*/
package auth
