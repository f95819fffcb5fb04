// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/budget-intake/middleware"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/service"
)

type AlternativeHandler struct {
	alternatives *service.AlternativeService
}

func NewAlternativeHandler(alternatives *service.AlternativeService) *AlternativeHandler {
	return &AlternativeHandler{alternatives: alternatives}
}

// Create handles POST /alternatives
// Stores the alternative and the work hours each team contributes
func (h *AlternativeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAlternativeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	alt, err := h.alternatives.Create(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("alternative created",
		"alternative_id", alt.ID,
		"question_id", alt.QuestionID,
		"teams", len(req.Teams),
	)
	middleware.JSONResponse(w, http.StatusCreated, alt)
}

// Get handles GET /alternatives/{id}
func (h *AlternativeHandler) Get(w http.ResponseWriter, r *http.Request) {
	alt, err := h.alternatives.FindAlternativeByID(r.Context(), pathID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, alt)
}

// Update handles PATCH /alternatives/{id}
func (h *AlternativeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAlternativeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	alt, err := h.alternatives.Update(r.Context(), pathID(r), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, alt)
}

// Delete handles DELETE /alternatives/{id}
func (h *AlternativeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := h.alternatives.Delete(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("alternative deleted", "alternative_id", id)
	w.WriteHeader(http.StatusNoContent)
}
