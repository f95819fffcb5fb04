// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/validation"
)

var (
	preSale   = Actor{UserID: "presale-1", Role: models.RolePreSale}
	financial = Actor{UserID: "financial-1", Role: models.RoleFinancial}
	admin     = Actor{UserID: "admin-1", Role: models.RoleAdmin}
)

func TestCreateBudgetRequest(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.BudgetRequests.Create(ctx, "")
	assertKind(t, err, apperr.KindValidation)

	_, err = f.svc.BudgetRequests.Create(ctx, "missing")
	assertKind(t, err, apperr.KindValidation)
	assert.Equal(t, "client id is incorrect", err.Error())

	clientID := seedClient(t, f, "Acme")
	br, err := f.svc.BudgetRequests.Create(ctx, clientID)
	require.NoError(t, err)
	assert.True(t, validation.IsID(br.ID))
	assert.Equal(t, models.BudgetStatusPending, br.Status)
	assert.Equal(t, []models.Role{models.RolePreSale}, f.notes.audiences())
}

func TestBudgetApprovalFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	br, err := f.svc.BudgetRequests.Create(ctx, seedClient(t, f, "Acme"))
	require.NoError(t, err)

	// Financial cannot act before pre-sale.
	_, err = f.svc.BudgetRequests.Approved(ctx, financial, models.ApproveBudgetRequestRequest{BudgetRequestID: br.ID, Approved: true})
	assertKind(t, err, apperr.KindValidation)

	decided, err := f.svc.BudgetRequests.Approved(ctx, preSale, models.ApproveBudgetRequestRequest{BudgetRequestID: br.ID, Approved: true})
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusPreSaleApproved, decided.Status)
	require.NotNil(t, decided.PreSaleApproverID)
	assert.Equal(t, preSale.UserID, *decided.PreSaleApproverID)

	_, err = f.svc.BudgetRequests.Approved(ctx, preSale, models.ApproveBudgetRequestRequest{BudgetRequestID: br.ID, Approved: true})
	assertKind(t, err, apperr.KindValidation)

	decided, err = f.svc.BudgetRequests.Approved(ctx, financial, models.ApproveBudgetRequestRequest{BudgetRequestID: br.ID, Approved: true})
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusApproved, decided.Status)
	require.NotNil(t, decided.FinancialApproverID)

	assert.Equal(t, []models.Role{models.RolePreSale, models.RoleFinancial, models.RoleAdmin}, f.notes.audiences())
}

func TestBudgetApprovalRejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	br, err := f.svc.BudgetRequests.Create(ctx, seedClient(t, f, "Acme"))
	require.NoError(t, err)

	_, err = f.svc.BudgetRequests.Approved(ctx, admin, models.ApproveBudgetRequestRequest{BudgetRequestID: br.ID})
	assertKind(t, err, apperr.KindForbidden)

	_, err = f.svc.BudgetRequests.Approved(ctx, preSale, models.ApproveBudgetRequestRequest{BudgetRequestID: "not-a-uuid"})
	assertKind(t, err, apperr.KindValidation)

	_, err = f.svc.BudgetRequests.Approved(ctx, preSale, models.ApproveBudgetRequestRequest{BudgetRequestID: validation.NewID()})
	assertKind(t, err, apperr.KindNotFound)

	decided, err := f.svc.BudgetRequests.Approved(ctx, preSale, models.ApproveBudgetRequestRequest{BudgetRequestID: br.ID, Approved: false})
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusRejected, decided.Status)
}

func TestFindAllBudgetRequestsFiltersByRole(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	clientID := seedClient(t, f, "Acme")

	pending, err := f.svc.BudgetRequests.Create(ctx, clientID)
	require.NoError(t, err)
	reviewed, err := f.svc.BudgetRequests.Create(ctx, clientID)
	require.NoError(t, err)
	rejected, err := f.svc.BudgetRequests.Create(ctx, clientID)
	require.NoError(t, err)

	_, err = f.svc.BudgetRequests.Approved(ctx, preSale, models.ApproveBudgetRequestRequest{BudgetRequestID: reviewed.ID, Approved: true})
	require.NoError(t, err)
	_, err = f.svc.BudgetRequests.Approved(ctx, preSale, models.ApproveBudgetRequestRequest{BudgetRequestID: rejected.ID, Approved: false})
	require.NoError(t, err)

	all, err := f.svc.BudgetRequests.FindAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	require.NotNil(t, all[0].Client)
	assert.Equal(t, "acme", all[0].Client.CompanyName)

	forFinancial, err := f.svc.BudgetRequests.FindAll(ctx, financial)
	require.NoError(t, err)
	require.Len(t, forFinancial, 1)
	assert.Equal(t, reviewed.ID, forFinancial[0].ID)

	_, err = f.svc.BudgetRequests.FindByID(ctx, financial, pending.ID)
	assertKind(t, err, apperr.KindNotFound)

	_, err = f.svc.BudgetRequests.FindAll(ctx, Actor{Role: models.RoleManager})
	assertKind(t, err, apperr.KindForbidden)
}

func TestFindBudgetRequestByID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	clientID := seedClient(t, f, "Acme")
	q1, a1 := seedQuestion(t, f, "Q1")

	res, err := f.svc.Clients.CreateClientResponses(ctx, models.ClientResponsesRequest{
		ClientID:  clientID,
		Responses: []models.ClientResponseInput{{QuestionID: q1, AlternativeID: a1}},
	})
	require.NoError(t, err)

	_, err = f.svc.BudgetRequests.FindByID(ctx, preSale, "not-a-uuid")
	assertKind(t, err, apperr.KindValidation)

	_, err = f.svc.BudgetRequests.FindByID(ctx, preSale, validation.NewID())
	assertKind(t, err, apperr.KindNotFound)

	detail, err := f.svc.BudgetRequests.FindByID(ctx, preSale, res.BudgetRequestID)
	require.NoError(t, err)
	require.NotNil(t, detail.Client)
	assert.Equal(t, clientID, detail.Client.ID)
	require.Len(t, detail.FormResponses, 1)
	assert.Equal(t, q1, detail.FormResponses[0].QuestionID)
}
