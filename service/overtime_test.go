// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
)

func seedUser(t *testing.T, f fixture, email string, role models.Role) Actor {
	t.Helper()
	u, err := f.svc.Users.Create(context.Background(), models.CreateUserRequest{
		Name:     "User " + email,
		Email:    email,
		Password: "correct horse",
		Role:     role,
	})
	require.NoError(t, err)
	return Actor{UserID: u.ID, Role: u.Role}
}

func TestUsers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Users.Create(ctx, models.CreateUserRequest{Name: "A", Email: "a@example.com", Password: "short", Role: models.RoleAdmin})
	assertKind(t, err, apperr.KindValidation)
	_, err = f.svc.Users.Create(ctx, models.CreateUserRequest{Name: "A", Email: "a@example.com", Password: "long enough", Role: "wizard"})
	assertKind(t, err, apperr.KindValidation)

	actor := seedUser(t, f, "Admin@Example.com", models.RoleAdmin)

	_, err = f.svc.Users.Create(ctx, models.CreateUserRequest{Name: "B", Email: "admin@example.com", Password: "long enough", Role: models.RoleAdmin})
	assertKind(t, err, apperr.KindValidation)

	u, err := f.svc.Users.Authenticate(ctx, " admin@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, u.ID)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	_, err = f.svc.Users.Authenticate(ctx, "admin@example.com", "wrong password")
	assertKind(t, err, apperr.KindUnauthorized)
	_, err = f.svc.Users.Authenticate(ctx, "ghost@example.com", "correct horse")
	assertKind(t, err, apperr.KindUnauthorized)

	again, err := f.svc.Users.EnsureUser(ctx, models.CreateUserRequest{Email: "admin@example.com"})
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, again.ID)

	_, err = f.svc.Users.FindByID(ctx, "missing")
	assertKind(t, err, apperr.KindNotFound)
}

func TestCreateUserRejectsOverlongPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Users.Create(ctx, models.CreateUserRequest{
		Name:     "Long",
		Email:    "long@example.com",
		Password: strings.Repeat("p", 73),
		Role:     models.RoleManager,
	})
	assertKind(t, err, apperr.KindValidation)

	_, err = f.svc.Users.Create(ctx, models.CreateUserRequest{
		Name:     "Edge",
		Email:    "edge@example.com",
		Password: strings.Repeat("p", 72),
		Role:     models.RoleManager,
	})
	require.NoError(t, err)
}

func TestCreateOvertimeRequest(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	worker := seedUser(t, f, "ps@example.com", models.RoleProfessionalServices)

	_, err := f.svc.Projects.Create(ctx, models.CreateProjectRequest{Name: " "})
	assertKind(t, err, apperr.KindValidation)
	project, err := f.svc.Projects.Create(ctx, models.CreateProjectRequest{Name: "Migration"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  models.CreateOvertimeRequest
	}{
		{"unknown project", models.CreateOvertimeRequest{ProjectID: "nope", Date: "2025-03-01", Hours: decimal.NewFromInt(2)}},
		{"bad date", models.CreateOvertimeRequest{ProjectID: project.ID, Date: "03/01/2025", Hours: decimal.NewFromInt(2)}},
		{"zero hours", models.CreateOvertimeRequest{ProjectID: project.ID, Date: "2025-03-01", Hours: decimal.Zero}},
		{"too many hours", models.CreateOvertimeRequest{ProjectID: project.ID, Date: "2025-03-01", Hours: decimal.RequireFromString("24.5")}},
		{"sub-cent hours", models.CreateOvertimeRequest{ProjectID: project.ID, Date: "2025-03-01", Hours: decimal.RequireFromString("1.005")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Overtime.Create(ctx, worker, tt.req)
			assertKind(t, err, apperr.KindValidation)
		})
	}
	assert.Empty(t, f.notes.audiences())

	o, err := f.svc.Overtime.Create(ctx, worker, models.CreateOvertimeRequest{
		ProjectID: project.ID,
		Date:      "2025-03-01",
		Hours:     decimal.RequireFromString("3.5"),
		Reason:    "cutover",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OvertimeStatusPending, o.Status)
	assert.Equal(t, worker.UserID, o.UserID)
	assert.ElementsMatch(t,
		[]models.Role{models.RoleManager, models.RoleAdmin, models.RoleProfessionalServices},
		f.notes.audiences())
}

func TestDecideOvertimeRequest(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	worker := seedUser(t, f, "ps@example.com", models.RoleProfessionalServices)
	colleague := seedUser(t, f, "ps2@example.com", models.RoleProfessionalServices)
	manager := seedUser(t, f, "manager@example.com", models.RoleManager)

	project, err := f.svc.Projects.Create(ctx, models.CreateProjectRequest{Name: "Migration"})
	require.NoError(t, err)
	o, err := f.svc.Overtime.Create(ctx, worker, models.CreateOvertimeRequest{
		ProjectID: project.ID, Date: "2025-03-01", Hours: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	own, err := f.svc.Overtime.FindAll(ctx, colleague)
	require.NoError(t, err)
	assert.Empty(t, own)
	all, err := f.svc.Overtime.FindAll(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.svc.Overtime.Decide(ctx, worker, o.ID, models.DecideOvertimeRequest{Approved: true})
	assertKind(t, err, apperr.KindForbidden)
	_, err = f.svc.Overtime.Decide(ctx, manager, "missing", models.DecideOvertimeRequest{Approved: true})
	assertKind(t, err, apperr.KindNotFound)

	decided, err := f.svc.Overtime.Decide(ctx, manager, o.ID, models.DecideOvertimeRequest{Approved: true})
	require.NoError(t, err)
	assert.Equal(t, models.OvertimeStatusApproved, decided.Status)
	require.NotNil(t, decided.DeciderID)
	assert.Equal(t, manager.UserID, *decided.DeciderID)

	last := f.notes.notes[len(f.notes.notes)-1]
	require.NotNil(t, last.RecipientID)
	assert.Equal(t, worker.UserID, *last.RecipientID)

	_, err = f.svc.Overtime.Decide(ctx, manager, o.ID, models.DecideOvertimeRequest{Approved: false})
	assertKind(t, err, apperr.KindValidation)
}
