// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the budget intake API.

# Handler Types

Each handler is a struct holding the workflow it serves:

  - ClientHandler: client registration and intake responses
  - BudgetRequestHandler: budget requests and their approval
  - QuestionHandler, TeamHandler, AlternativeHandler: the questionnaire
  - UserHandler: login, staff accounts and the current user
  - ProjectHandler, OvertimeHandler: overtime requests
  - NotificationHandler: notification history and the websocket stream

Handlers are created via constructor functions:

	clients := handlers.NewClientHandler(svc.Clients)

Handlers decode JSON with middleware.ParseJSONBody, answer malformed bodies
with 400 "Invalid JSON" and hand workflow errors to middleware.WriteError.
The authenticated caller comes from the claims the router's guard placed in
the request context.

# Intake Flow

Public endpoints used by the client-facing form:

	GET  /questions         → QuestionHandler.List
	POST /clients           → ClientHandler.Create (idempotent per company)
	POST /clients/responses → ClientHandler.SubmitResponses (opens a budget request)

# Approval Flow

Budget requests move pending → pre_sale_approved → approved, or to rejected
at either stage:

	POST /budget-request/approved → BudgetRequestHandler.Approve (204)
	GET  /budget-request          → BudgetRequestHandler.List (filtered by role)
	GET  /budget-request/{id}     → BudgetRequestHandler.Get ({id} must be a UUID)

# Overtime

	POST /overtime-requests               → OvertimeHandler.Create
	POST /overtime-requests/{id}/decision → OvertimeHandler.Decide
*/
package handlers
