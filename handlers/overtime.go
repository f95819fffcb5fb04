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

type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create handles POST /projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	p, err := h.projects.Create(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, p)
}

// List handles GET /projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.FindAll(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, projects)
}

type OvertimeHandler struct {
	overtime *service.OvertimeService
}

func NewOvertimeHandler(overtime *service.OvertimeService) *OvertimeHandler {
	return &OvertimeHandler{overtime: overtime}
}

// Create handles POST /overtime-requests
func (h *OvertimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOvertimeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	ot, err := h.overtime.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("overtime requested",
		"overtime_id", ot.ID,
		"project_id", ot.ProjectID,
		"user_id", ot.UserID,
		"hours", ot.Hours.String(),
	)
	middleware.JSONResponse(w, http.StatusCreated, ot)
}

// List handles GET /overtime-requests
func (h *OvertimeHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.overtime.FindAll(r.Context(), actorFrom(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, requests)
}

// Decide handles POST /overtime-requests/{id}/decision
func (h *OvertimeHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req models.DecideOvertimeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	ot, err := h.overtime.Decide(r.Context(), actorFrom(r), pathID(r), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ot)
}
