// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store/postgres"
	"github.com/danielhkuo/budget-intake/testutil"
)

// TestFullIntakeWorkflow tests the complete end-to-end workflow against
// Postgres:
// 1. Admin builds the questionnaire (team, question, alternative)
// 2. Client registers and submits responses
// 3. Pre-sale approves the generated budget request
// 4. Financial approves it
// 5. The request carries both approvers and the form responses
func TestFullIntakeWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := newTestEnvWith(t, postgres.New(db))

	admin := env.user(t, models.RoleAdmin)
	preSale := env.user(t, models.RolePreSale)
	financial := env.user(t, models.RoleFinancial)

	teams := NewTeamHandler(env.svc.Teams)
	questions := NewQuestionHandler(env.svc.Questions)
	alternatives := NewAlternativeHandler(env.svc.Alternatives)
	clients := NewClientHandler(env.svc.Clients)
	budgets := NewBudgetRequestHandler(env.svc.BudgetRequests)

	// Step 1: questionnaire
	w := call(teams.Create, testutil.MakeRequest("POST", "/teams", models.CreateTeamRequest{Name: "Backend"}, nil), "", admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create team failed: %d - %s", w.Code, w.Body.String())
	}
	var team models.Team
	testutil.AssertJSON(t, w, &team)

	w = call(questions.Create, testutil.MakeRequest("POST", "/questions", models.CreateQuestionRequest{Prompt: "Which platform?"}, nil), "", admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create question failed: %d - %s", w.Code, w.Body.String())
	}
	var question models.Question
	testutil.AssertJSON(t, w, &question)

	altReq := models.CreateAlternativeRequest{
		Description: "Web",
		QuestionID:  question.ID,
		Teams:       []models.TeamHours{{TeamID: team.ID, WorkHours: decimal.NewFromInt(40)}},
	}
	w = call(alternatives.Create, testutil.MakeRequest("POST", "/alternatives", altReq, nil), "", admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create alternative failed: %d - %s", w.Code, w.Body.String())
	}
	var alt models.AlternativeResponse
	testutil.AssertJSON(t, w, &alt)
	t.Logf("Step 1 - Question %s with alternative %s", question.ID, alt.ID)

	// Step 2: client intake
	w = call(clients.Create, testutil.MakeRequest("POST", "/clients", models.CreateClientRequest{
		Name:        "Ana",
		CompanyName: "Acme",
		Email:       "ana@acme.test",
		Phone:       "(11) 5555-0000",
	}, nil), "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create client failed: %d - %s", w.Code, w.Body.String())
	}
	var client models.CreateClientResponse
	testutil.AssertJSON(t, w, &client)

	w = call(clients.SubmitResponses, testutil.MakeRequest("POST", "/clients/responses", models.ClientResponsesRequest{
		ClientID:  client.ID,
		Responses: []models.ClientResponseInput{{QuestionID: question.ID, AlternativeID: alt.ID}},
	}, nil), "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Submit responses failed: %d - %s", w.Code, w.Body.String())
	}
	var result models.ClientResponsesResult
	testutil.AssertJSON(t, w, &result)
	t.Logf("Step 2 - Budget request %s opened", result.BudgetRequestID)

	// Steps 3 and 4: approvals
	for _, approver := range []*models.User{preSale, financial} {
		body := models.ApproveBudgetRequestRequest{BudgetRequestID: result.BudgetRequestID, Approved: true}
		w = call(budgets.Approve, testutil.MakeRequest("POST", "/budget-request/approved", body, nil), "", approver)
		if w.Code != http.StatusNoContent {
			t.Fatalf("Step 3/4 - %s approval failed: %d - %s", approver.Role, w.Code, w.Body.String())
		}
	}

	// Step 5: final state
	w = call(budgets.Get, testutil.MakeRequest("GET", "/budget-request/"+result.BudgetRequestID, nil, nil), result.BudgetRequestID, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Get budget request failed: %d - %s", w.Code, w.Body.String())
	}
	var detail models.BudgetRequestDetail
	testutil.AssertJSON(t, w, &detail)

	if detail.Status != models.BudgetStatusApproved {
		t.Errorf("Expected status approved, got %s", detail.Status)
	}
	if detail.PreSaleApproverID == nil || *detail.PreSaleApproverID != preSale.ID {
		t.Errorf("Expected pre-sale approver %s, got %v", preSale.ID, detail.PreSaleApproverID)
	}
	if detail.FinancialApproverID == nil || *detail.FinancialApproverID != financial.ID {
		t.Errorf("Expected financial approver %s, got %v", financial.ID, detail.FinancialApproverID)
	}
	if len(detail.FormResponses) != 1 {
		t.Fatalf("Expected 1 form response, got %d", len(detail.FormResponses))
	}
	if got := detail.FormResponses[0].AlternativeID; got == nil || *got != alt.ID {
		t.Errorf("Expected alternative %s on the response, got %v", alt.ID, got)
	}
}
