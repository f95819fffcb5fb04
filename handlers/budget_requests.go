// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/budget-intake/middleware"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/service"
	"github.com/danielhkuo/budget-intake/validation"
)

type BudgetRequestHandler struct {
	budgets *service.BudgetRequestService
}

func NewBudgetRequestHandler(budgets *service.BudgetRequestService) *BudgetRequestHandler {
	return &BudgetRequestHandler{budgets: budgets}
}

// Create handles POST /budget-request
func (h *BudgetRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBudgetRequestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	br, err := h.budgets.Create(r.Context(), req.ClientID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, br)
}

// Approve handles POST /budget-request/approved
// Records the caller's decision for the stage their role owns
func (h *BudgetRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req models.ApproveBudgetRequestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	actor := actorFrom(r)
	br, err := h.budgets.Approved(r.Context(), actor, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("budget request decided",
		"budget_request_id", br.ID,
		"status", br.Status,
		"approver_id", actor.UserID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /budget-request
func (h *BudgetRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.budgets.FindAll(r.Context(), actorFrom(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, requests)
}

// Get handles GET /budget-request/{id}
func (h *BudgetRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !validation.IsID(id) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Validation failed (uuid is expected)")
		return
	}

	br, err := h.budgets.FindByID(r.Context(), actorFrom(r), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, br)
}
