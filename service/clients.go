// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/metrics"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
	"github.com/danielhkuo/budget-intake/validation"
)

// Validation messages for response batches
const (
	msgDuplicateReference   = "duplicate question or alternative reference"
	msgClientNotFound       = "client not found"
	msgAlternativeOrDetails = "alternative id or details required"
	msgAlternativeAndDetail = "alternative id and details are mutually exclusive"
	msgInconsistentClient   = "inconsistent client across responses"
	msgEmptyBatch           = "at least one response is required"
)

// ClientService registers clients and accepts their questionnaire responses.
type ClientService struct {
	tx        store.Transactor
	clients   store.ClientRepository
	budgets   *BudgetRequestService
	questions *QuestionService
}

// CreateClient is idempotent per normalized company name: a known company
// gets its existing id back and nothing is written.
func (s *ClientService) CreateClient(ctx context.Context, req models.CreateClientRequest) (models.CreateClientResponse, error) {
	companyName := validation.NormalizeCompanyName(req.CompanyName)
	if companyName == "" {
		return models.CreateClientResponse{}, apperr.Validation("company name is required")
	}

	existing, err := s.clients.FindClientByCompanyName(ctx, companyName)
	if err == nil {
		slog.Info("client already registered", "client_id", existing.ID, "company_name", companyName)
		return models.CreateClientResponse{ID: existing.ID, CompanyName: existing.CompanyName}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.CreateClientResponse{}, err
	}

	c := models.Client{
		ID:          validation.NewID(),
		Name:        strings.TrimSpace(req.Name),
		CompanyName: companyName,
		Email:       validation.NormalizeEmail(req.Email),
		Phone:       validation.NormalizePhone(req.Phone),
		CreatedAt:   time.Now().UTC(),
	}
	if req.TechnicalContactPhone != nil {
		phone := validation.NormalizePhone(*req.TechnicalContactPhone)
		c.TechnicalContactPhone = &phone
	}

	created, err := s.clients.CreateClient(ctx, c)
	if err != nil {
		return models.CreateClientResponse{}, err
	}

	slog.Info("client created", "client_id", created.ID, "company_name", created.CompanyName)
	return models.CreateClientResponse{ID: created.ID, CompanyName: created.CompanyName}, nil
}

// CreateClientResponses validates a response batch and stores it under a
// new budget request. Nothing is written unless every check passes.
func (s *ClientService) CreateClientResponses(ctx context.Context, req models.ClientResponsesRequest) (_ models.ClientResponsesResult, err error) {
	defer func() {
		outcome := "accepted"
		if err != nil {
			outcome = string(apperr.KindOf(err))
		}
		metrics.RecordResponseBatch(outcome)
	}()

	if len(req.Responses) == 0 {
		return models.ClientResponsesResult{}, apperr.Validation(msgEmptyBatch)
	}

	questionIDs := make([]string, len(req.Responses))
	alternativeIDs := make([]string, len(req.Responses))
	for i, r := range req.Responses {
		questionIDs[i] = r.QuestionID
		alternativeIDs[i] = r.AlternativeID
	}
	if validation.HasDuplicates(questionIDs) || validation.HasDuplicates(alternativeIDs) {
		return models.ClientResponsesResult{}, apperr.Validation(msgDuplicateReference)
	}

	if _, err := s.VerifyClientExist(ctx, req.ClientID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return models.ClientResponsesResult{}, apperr.Validation(msgClientNotFound)
		}
		return models.ClientResponsesResult{}, err
	}

	for _, r := range req.Responses {
		hasAlt := r.AlternativeID != ""
		hasDetails := !validation.IsBlank(r.ResponseDetails)
		if !hasAlt && !hasDetails {
			return models.ClientResponsesResult{}, apperr.Validation(msgAlternativeOrDetails)
		}
		if hasAlt && hasDetails {
			return models.ClientResponsesResult{}, apperr.Validation(msgAlternativeAndDetail)
		}
	}

	for _, r := range req.Responses {
		if r.ClientID != "" && r.ClientID != req.ClientID {
			return models.ClientResponsesResult{}, apperr.Validation(msgInconsistentClient)
		}
	}

	for _, r := range req.Responses {
		if _, err := s.questions.VerifyQuestionExist(ctx, r.QuestionID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return models.ClientResponsesResult{}, apperr.Validation("Question with id '%s' not found", r.QuestionID)
			}
			return models.ClientResponsesResult{}, err
		}
		if r.AlternativeID == "" {
			continue
		}
		if err := s.questions.VerifyRelationshipBetweenQuestionAndAlternative(ctx, r.QuestionID, r.AlternativeID); err != nil {
			return models.ClientResponsesResult{}, err
		}
	}

	var br models.BudgetRequest
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		br, err = s.budgets.create(ctx, req.ClientID)
		if err != nil {
			return err
		}
		return s.clients.CreateClientResponses(ctx, responseRows(br, req.Responses))
	})
	if err != nil {
		return models.ClientResponsesResult{}, err
	}

	slog.Info("client responses stored",
		"client_id", req.ClientID,
		"budget_request_id", br.ID,
		"responses", len(req.Responses),
	)
	s.budgets.announceCreated(ctx, br)

	return models.ClientResponsesResult{BudgetRequestID: br.ID, ResponseCount: len(req.Responses)}, nil
}

func responseRows(br models.BudgetRequest, inputs []models.ClientResponseInput) []models.ClientResponse {
	now := time.Now().UTC()
	rows := make([]models.ClientResponse, len(inputs))
	for i, in := range inputs {
		row := models.ClientResponse{
			ID:              validation.NewID(),
			BudgetRequestID: br.ID,
			ClientID:        br.ClientID,
			QuestionID:      in.QuestionID,
			CreatedAt:       now,
		}
		if in.AlternativeID != "" {
			alt := in.AlternativeID
			row.AlternativeID = &alt
		} else {
			details := strings.TrimSpace(in.ResponseDetails)
			row.ResponseDetails = &details
		}
		rows[i] = row
	}
	return rows
}

// FindClientByID returns the client with its budget requests and their
// form responses.
func (s *ClientService) FindClientByID(ctx context.Context, id string) (models.ClientWithBudgetRequests, error) {
	c, err := s.VerifyClientExist(ctx, id)
	if err != nil {
		return models.ClientWithBudgetRequests{}, err
	}

	requests, err := s.budgets.budgets.FindBudgetRequestsByClient(ctx, id)
	if err != nil {
		return models.ClientWithBudgetRequests{}, err
	}
	details, err := s.budgets.details(ctx, requests, nil)
	if err != nil {
		return models.ClientWithBudgetRequests{}, err
	}

	return models.ClientWithBudgetRequests{Client: c, BudgetRequests: details}, nil
}

// FindAllClients fails with NotFound when no client is registered.
func (s *ClientService) FindAllClients(ctx context.Context) ([]models.ClientWithBudgetRequests, error) {
	clients, err := s.clients.FindAllClients(ctx)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, apperr.NotFound("no clients found")
	}

	requests, err := s.budgets.budgets.FindBudgetRequests(ctx, nil)
	if err != nil {
		return nil, err
	}
	details, err := s.budgets.details(ctx, requests, nil)
	if err != nil {
		return nil, err
	}

	byClient := make(map[string][]models.BudgetRequestDetail)
	for _, d := range details {
		byClient[d.ClientID] = append(byClient[d.ClientID], d)
	}

	out := make([]models.ClientWithBudgetRequests, len(clients))
	for i, c := range clients {
		out[i] = models.ClientWithBudgetRequests{Client: c, BudgetRequests: byClient[c.ID]}
		if out[i].BudgetRequests == nil {
			out[i].BudgetRequests = []models.BudgetRequestDetail{}
		}
	}
	return out, nil
}

func (s *ClientService) DeleteClientByID(ctx context.Context, id string) error {
	if err := s.clients.DeleteClientByID(ctx, id); err != nil {
		return notFound(err, "Client with id '%s' not found", id)
	}
	slog.Info("client deleted", "client_id", id)
	return nil
}

// VerifyClientExist fetches a client or fails with NotFound.
func (s *ClientService) VerifyClientExist(ctx context.Context, id string) (models.Client, error) {
	c, err := s.clients.FindClientByID(ctx, id)
	if err != nil {
		return models.Client{}, notFound(err, "Client with id '%s' not found", id)
	}
	return c, nil
}
