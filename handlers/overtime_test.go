// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/testutil"
)

func TestOvertimeFlow(t *testing.T) {
	env := newTestEnv(t)
	projects := NewProjectHandler(env.svc.Projects)
	h := NewOvertimeHandler(env.svc.Overtime)
	manager := env.user(t, models.RoleManager)
	engineer := env.user(t, models.RoleProfessionalServices)

	w := call(projects.Create, testutil.MakeRequest("POST", "/projects", models.CreateProjectRequest{Name: "Migration"}, nil), "", manager)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var project models.Project
	testutil.AssertJSON(t, w, &project)

	w = call(projects.List, testutil.MakeRequest("GET", "/projects", nil, nil), "", engineer)
	testutil.AssertStatus(t, w, http.StatusOK)

	body := models.CreateOvertimeRequest{
		ProjectID: project.ID,
		Date:      "2026-03-14",
		Hours:     decimal.RequireFromString("2.5"),
		Reason:    "cutover window",
	}
	w = call(h.Create, testutil.MakeRequest("POST", "/overtime-requests", body, nil), "", engineer)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var ot models.OvertimeRequest
	testutil.AssertJSON(t, w, &ot)
	assert.Equal(t, models.OvertimeStatusPending, ot.Status)
	assert.Equal(t, engineer.ID, ot.UserID)

	body.Hours = decimal.NewFromInt(25)
	w = call(h.Create, testutil.MakeRequest("POST", "/overtime-requests", body, nil), "", engineer)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = call(h.List, testutil.MakeRequest("GET", "/overtime-requests", nil, nil), "", engineer)
	testutil.AssertStatus(t, w, http.StatusOK)
	var mine []models.OvertimeRequest
	testutil.AssertJSON(t, w, &mine)
	require.Len(t, mine, 1)

	decide := models.DecideOvertimeRequest{Approved: true}
	w = call(h.Decide, testutil.MakeRequest("POST", "/overtime-requests/"+ot.ID+"/decision", decide, nil), ot.ID, engineer)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = call(h.Decide, testutil.MakeRequest("POST", "/overtime-requests/"+ot.ID+"/decision", decide, nil), ot.ID, manager)
	testutil.AssertStatus(t, w, http.StatusOK)
	var decided models.OvertimeRequest
	testutil.AssertJSON(t, w, &decided)
	assert.Equal(t, models.OvertimeStatusApproved, decided.Status)

	w = call(h.Decide, testutil.MakeRequest("POST", "/overtime-requests/"+ot.ID+"/decision", decide, nil), ot.ID, manager)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
