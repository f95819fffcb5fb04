// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
)

func strPtr(s string) *string { return &s }

func TestCreateClientConflictReturnsExisting(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.CreateClient(ctx, models.Client{ID: "c1", CompanyName: "acme"})
	require.NoError(t, err)

	second, err := s.CreateClient(ctx, models.Client{ID: "c2", CompanyName: "acme"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := s.FindAllClients(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateClientResponsesReferenceChecks(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateClient(ctx, models.Client{ID: "c1", CompanyName: "acme"})
	require.NoError(t, err)
	_, err = s.CreateBudgetRequest(ctx, models.BudgetRequest{ID: "b1", ClientID: "c1", Status: models.BudgetStatusPending})
	require.NoError(t, err)
	_, err = s.CreateQuestion(ctx, models.Question{ID: "q1"})
	require.NoError(t, err)

	err = s.CreateClientResponses(ctx, []models.ClientResponse{
		{ID: "r1", BudgetRequestID: "b1", ClientID: "c1", QuestionID: "missing", ResponseDetails: strPtr("x")},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "question id is incorrect", err.Error())

	err = s.CreateClientResponses(ctx, []models.ClientResponse{
		{ID: "r1", BudgetRequestID: "b1", ClientID: "c1", QuestionID: "q1", AlternativeID: strPtr("missing")},
	})
	require.Error(t, err)
	assert.Equal(t, "alternative id is incorrect", err.Error())

	err = s.CreateClientResponses(ctx, []models.ClientResponse{
		{ID: "r1", BudgetRequestID: "b1", ClientID: "c1", QuestionID: "q1", ResponseDetails: strPtr("ok")},
	})
	require.NoError(t, err)

	rows, err := s.FindClientResponses(ctx, []string{"b1"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(ctx context.Context) error {
		_, err := s.CreateClient(ctx, models.Client{ID: "c1", CompanyName: "acme"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindClientByID(ctx, "c1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteQuestionCascades(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateQuestion(ctx, models.Question{ID: "q1"})
	require.NoError(t, err)
	_, err = s.CreateTeam(ctx, models.Team{ID: "t1"})
	require.NoError(t, err)
	_, err = s.CreateAlternative(ctx, models.Alternative{ID: "a1", QuestionID: "q1"})
	require.NoError(t, err)
	require.NoError(t, s.CreateAlternativesTeams(ctx, []models.AlternativeTeam{
		{AlternativeID: "a1", TeamID: "t1", WorkHours: decimal.NewFromInt(5)},
	}))

	require.NoError(t, s.DeleteQuestionByID(ctx, "q1"))

	_, err = s.FindAlternativeByID(ctx, "a1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	teams, err := s.FindAlternativesTeams(ctx, []string{"a1"})
	require.NoError(t, err)
	assert.Empty(t, teams)

	assert.ErrorIs(t, s.DeleteQuestionByID(ctx, "q1"), store.ErrNotFound)
}

func TestDecideBudgetRequestRequiresStatus(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateClient(ctx, models.Client{ID: "c1", CompanyName: "acme"})
	require.NoError(t, err)
	_, err = s.CreateBudgetRequest(ctx, models.BudgetRequest{ID: "b1", ClientID: "c1", Status: models.BudgetStatusPending})
	require.NoError(t, err)

	_, err = s.DecideBudgetRequest(ctx, "b1", models.BudgetStatusPreSaleApproved, models.BudgetStatusApproved, store.StageFinancial, "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	br, err := s.DecideBudgetRequest(ctx, "b1", models.BudgetStatusPending, models.BudgetStatusPreSaleApproved, store.StagePreSale, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusPreSaleApproved, br.Status)
	require.NotNil(t, br.PreSaleApproverID)
	assert.Equal(t, "u1", *br.PreSaleApproverID)
	assert.Nil(t, br.FinancialApproverID)
}

func TestFindNotificationsByRoleAndRecipient(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateNotification(ctx, models.Notification{ID: "n1", Audience: models.RoleManager})
	require.NoError(t, err)
	_, err = s.CreateNotification(ctx, models.Notification{ID: "n2", RecipientID: strPtr("u1")})
	require.NoError(t, err)
	_, err = s.CreateNotification(ctx, models.Notification{ID: "n3", Audience: models.RoleAdmin})
	require.NoError(t, err)

	got, err := s.FindNotifications(ctx, "u1", models.RoleManager, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, "n1", got[1].ID)
}

func TestFailOnIsOneShot(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")
	s.FailOn("CreateClient", boom)

	_, err := s.CreateClient(ctx, models.Client{ID: "c1", CompanyName: "acme"})
	assert.ErrorIs(t, err, boom)

	_, err = s.CreateClient(ctx, models.Client{ID: "c1", CompanyName: "acme"})
	assert.NoError(t, err)
}
