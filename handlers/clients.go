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

type ClientHandler struct {
	clients *service.ClientService
}

func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// Create handles POST /clients
// Returns the existing client when the company is already registered
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClientRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	client, err := h.clients.CreateClient(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, client)
}

// SubmitResponses handles POST /clients/responses
func (h *ClientHandler) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	var req models.ClientResponsesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	result, err := h.clients.CreateClientResponses(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("client responses accepted",
		"client_id", req.ClientID,
		"budget_request_id", result.BudgetRequestID,
		"responses", result.ResponseCount,
	)
	middleware.JSONResponse(w, http.StatusCreated, result)
}

// List handles GET /clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.FindAllClients(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, clients)
}

// Get handles GET /clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, err := h.clients.FindClientByID(r.Context(), pathID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, client)
}

// Delete handles DELETE /clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := h.clients.DeleteClientByID(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("client deleted", "client_id", id, "by", actorFrom(r).UserID)
	w.WriteHeader(http.StatusNoContent)
}
