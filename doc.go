// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the budget intake API server.

Budget intake collects questionnaire answers from prospective clients,
turns each submission into a budget request, and routes it through
pre-sale and financial approval. Staff also file and decide overtime
requests, and every step notifies the next reviewer.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -jwt-secret "..."

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): HMAC key for bearer tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - TOKEN_TTL (-token-ttl): Token lifetime (default: 12h)
  - ACCESS_POLICY_FILE (-policy): YAML overrides for route roles
  - RATE_LIMIT_RPS / RATE_LIMIT_BURST (-rate / -burst): Public route limits
  - CORS_ORIGINS (-cors): Comma-separated allowed origins (default: *)
  - ADMIN_EMAIL / ADMIN_PASSWORD: Create this admin at startup if missing

# Architecture

  - handlers: HTTP request handlers
  - router: Route table, auth guard, rate limits
  - service: Intake, approval and overtime workflows
  - store: Repository interfaces with postgres and memory implementations
  - notify: Notification persistence and websocket fan-out
  - middleware: Logging, CORS, auth, rate limiting, JSON helpers
  - auth: Tokens and the route access policy
  - metrics: Prometheus collectors
  - apperr, validation, models, db, cliparse: supporting packages

See package documentation for each component.
*/
package main
