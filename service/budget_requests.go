// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/metrics"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/notify"
	"github.com/danielhkuo/budget-intake/store"
	"github.com/danielhkuo/budget-intake/validation"
)

// BudgetRequestService tracks budget requests through pre-sale and
// financial review.
type BudgetRequestService struct {
	budgets  store.BudgetRequestRepository
	clients  store.ClientRepository
	notifier notify.Notifier
}

// stageRule is the transition an approver role may perform.
type stageRule struct {
	stage store.Stage
	from  string
	// approvedTo is the next status when approved; rejection always
	// goes to rejected.
	approvedTo string
}

var stageRules = map[models.Role]stageRule{
	models.RolePreSale: {
		stage:      store.StagePreSale,
		from:       models.BudgetStatusPending,
		approvedTo: models.BudgetStatusPreSaleApproved,
	},
	models.RoleFinancial: {
		stage:      store.StageFinancial,
		from:       models.BudgetStatusPreSaleApproved,
		approvedTo: models.BudgetStatusApproved,
	},
}

// Create opens a pending budget request for an existing client.
func (s *BudgetRequestService) Create(ctx context.Context, clientID string) (models.BudgetRequest, error) {
	if clientID == "" {
		return models.BudgetRequest{}, apperr.Validation("client id is required")
	}

	br, err := s.create(ctx, clientID)
	if err != nil {
		return models.BudgetRequest{}, err
	}
	s.announceCreated(ctx, br)
	return br, nil
}

// create writes the row without notifying, so it can run inside a larger
// transaction.
func (s *BudgetRequestService) create(ctx context.Context, clientID string) (models.BudgetRequest, error) {
	now := time.Now().UTC()
	br, err := s.budgets.CreateBudgetRequest(ctx, models.BudgetRequest{
		ID:        validation.NewID(),
		ClientID:  clientID,
		Status:    models.BudgetStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.BudgetRequest{}, err
	}

	slog.Info("budget request created", "budget_request_id", br.ID, "client_id", clientID)
	return br, nil
}

func (s *BudgetRequestService) announceCreated(ctx context.Context, br models.BudgetRequest) {
	announce(ctx, s.notifier, models.Notification{
		Audience: models.RolePreSale,
		Title:    "New budget request",
		Message:  fmt.Sprintf("Budget request %s is waiting for pre-sale review.", br.ID),
	})
}

// Approved records the decision of a pre-sale or financial approver on the
// stage their role owns.
func (s *BudgetRequestService) Approved(ctx context.Context, approver Actor, req models.ApproveBudgetRequestRequest) (models.BudgetRequest, error) {
	rule, ok := stageRules[approver.Role]
	if !ok {
		return models.BudgetRequest{}, apperr.Forbidden("role cannot decide budget requests")
	}
	if !validation.IsID(req.BudgetRequestID) {
		return models.BudgetRequest{}, apperr.Validation("budget request id is invalid")
	}

	current, err := s.budgets.FindBudgetRequestByID(ctx, req.BudgetRequestID)
	if err != nil {
		return models.BudgetRequest{}, notFound(err, "Budget request with id '%s' not found", req.BudgetRequestID)
	}
	if current.Status != rule.from {
		return models.BudgetRequest{}, apperr.Validation("budget request is %s and cannot be decided by %s", current.Status, approver.Role)
	}

	to := models.BudgetStatusRejected
	if req.Approved {
		to = rule.approvedTo
	}

	decided, err := s.budgets.DecideBudgetRequest(ctx, current.ID, rule.from, to, rule.stage, approver.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return models.BudgetRequest{}, apperr.Validation("budget request was decided concurrently")
	}
	if err != nil {
		return models.BudgetRequest{}, err
	}

	metrics.RecordBudgetDecision(string(approver.Role), decided.Status)
	slog.Info("budget request decided",
		"budget_request_id", decided.ID,
		"approver_id", approver.UserID,
		"role", approver.Role,
		"status", decided.Status,
	)

	if decided.Status == models.BudgetStatusPreSaleApproved {
		announce(ctx, s.notifier, models.Notification{
			Audience: models.RoleFinancial,
			Title:    "Budget request ready for financial review",
			Message:  fmt.Sprintf("Budget request %s was approved by pre-sale.", decided.ID),
		})
	} else {
		announce(ctx, s.notifier, models.Notification{
			Audience: models.RoleAdmin,
			Title:    "Budget request " + decided.Status,
			Message:  fmt.Sprintf("Budget request %s is now %s.", decided.ID, decided.Status),
		})
	}
	return decided, nil
}

// FindAll lists the requests visible to the caller. Financial reviewers
// only see requests that passed pre-sale review.
func (s *BudgetRequestService) FindAll(ctx context.Context, caller Actor) ([]models.BudgetRequestDetail, error) {
	var statuses []string
	switch caller.Role {
	case models.RolePreSale, models.RoleAdmin:
	case models.RoleFinancial:
		statuses = []string{models.BudgetStatusPreSaleApproved, models.BudgetStatusApproved, models.BudgetStatusRejected}
	default:
		return nil, apperr.Forbidden("role cannot list budget requests")
	}

	requests, err := s.budgets.FindBudgetRequests(ctx, statuses)
	if err != nil {
		return nil, err
	}

	visible := requests[:0]
	for _, br := range requests {
		if visibleTo(caller.Role, br) {
			visible = append(visible, br)
		}
	}

	clients, err := s.clients.FindAllClients(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	return s.details(ctx, visible, byID)
}

// FindByID returns one request with its client and form responses.
func (s *BudgetRequestService) FindByID(ctx context.Context, caller Actor, id string) (models.BudgetRequestDetail, error) {
	if !validation.IsID(id) {
		return models.BudgetRequestDetail{}, apperr.Validation("budget request id is invalid")
	}

	br, err := s.budgets.FindBudgetRequestByID(ctx, id)
	if err != nil {
		return models.BudgetRequestDetail{}, notFound(err, "Budget request with id '%s' not found", id)
	}
	if !visibleTo(caller.Role, br) {
		return models.BudgetRequestDetail{}, apperr.NotFound("Budget request with id '%s' not found", id)
	}

	byID := make(map[string]models.Client, 1)
	if c, err := s.clients.FindClientByID(ctx, br.ClientID); err == nil {
		byID[c.ID] = c
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.BudgetRequestDetail{}, err
	}

	details, err := s.details(ctx, []models.BudgetRequest{br}, byID)
	if err != nil {
		return models.BudgetRequestDetail{}, err
	}
	return details[0], nil
}

func visibleTo(role models.Role, br models.BudgetRequest) bool {
	if role != models.RoleFinancial {
		return true
	}
	switch br.Status {
	case models.BudgetStatusPreSaleApproved, models.BudgetStatusApproved:
		return true
	case models.BudgetStatusRejected:
		return br.FinancialApproverID != nil
	}
	return false
}

// details attaches form responses, and the client when clients is non-nil.
func (s *BudgetRequestService) details(ctx context.Context, requests []models.BudgetRequest, clients map[string]models.Client) ([]models.BudgetRequestDetail, error) {
	out := make([]models.BudgetRequestDetail, len(requests))
	if len(requests) == 0 {
		return out, nil
	}

	ids := make([]string, len(requests))
	for i, br := range requests {
		ids[i] = br.ID
	}
	responses, err := s.clients.FindClientResponses(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[string][]models.ClientResponse)
	for _, r := range responses {
		byRequest[r.BudgetRequestID] = append(byRequest[r.BudgetRequestID], r)
	}

	for i, br := range requests {
		d := models.BudgetRequestDetail{BudgetRequest: br, FormResponses: byRequest[br.ID]}
		if d.FormResponses == nil {
			d.FormResponses = []models.ClientResponse{}
		}
		if c, ok := clients[br.ClientID]; ok {
			d.Client = &c
		}
		out[i] = d
	}
	return out, nil
}
