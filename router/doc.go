// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the budget intake API.

# Route Registration

NewRouter wires every handler onto a gorilla/mux router and wraps it with
CORS:

	h := router.NewRouter(svc, hub, cfg, policy, limiter)

Each route is wrapped with middleware.WithLogging. Public intake routes go
through the rate limiter; every other route goes through the auth guard,
which checks the bearer token and the role the access policy allows for
that route name. Matched routes are counted by metrics.InstrumentHandler.

# Endpoints

Operational:

	GET /health  - Liveness
	GET /metrics - Prometheus metrics
	GET /        - Banner

Public (rate limited):

	POST /auth/login        - Exchange credentials for a token
	POST /clients           - Register a client (idempotent per company)
	POST /clients/responses - Submit intake responses
	POST /budget-request    - Open a budget request
	GET  /questions         - Questionnaire with alternatives

Budget review (pre-sale, financial, admin):

	POST /budget-request/approved - Decide the caller's stage
	GET  /budget-request          - List, filtered by role
	GET  /budget-request/{id}     - One request with form responses
	GET  /clients, /clients/{id}

Administration:

	POST /users, /questions, /teams, /alternatives
	PATCH /alternatives/{id}
	DELETE /clients/{id}, /questions/{id}, /alternatives/{id}

Overtime and notifications:

	POST /projects, /overtime-requests, /overtime-requests/{id}/decision
	GET  /notifications, /notifications/ws
*/
package router
