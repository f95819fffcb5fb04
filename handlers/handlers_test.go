// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/budget-intake/auth"
	"github.com/danielhkuo/budget-intake/cliparse"
	"github.com/danielhkuo/budget-intake/middleware"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/notify"
	"github.com/danielhkuo/budget-intake/service"
	"github.com/danielhkuo/budget-intake/store"
	"github.com/danielhkuo/budget-intake/store/memory"
	"github.com/danielhkuo/budget-intake/testutil"
)

const testPassword = "correct-horse"

type testEnv struct {
	store store.Store
	hub   *notify.Hub
	svc   *service.Services
	cfg   cliparse.Config
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	return newTestEnvWith(t, memory.New())
}

func newTestEnvWith(t *testing.T, st store.Store) testEnv {
	t.Helper()
	hub := notify.NewHub(st)
	return testEnv{store: st, hub: hub, svc: service.New(st, hub), cfg: testutil.GetTestConfig()}
}

// user registers a user with the given role and testPassword.
func (e testEnv) user(t *testing.T, role models.Role) *models.User {
	t.Helper()
	u, err := e.svc.Users.Create(context.Background(), models.CreateUserRequest{
		Name:     string(role) + " user",
		Email:    string(role) + "@example.com",
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	return &u
}

func (e testEnv) question(t *testing.T, prompt string) (string, string) {
	t.Helper()
	ctx := context.Background()
	q, err := e.svc.Questions.Create(ctx, models.CreateQuestionRequest{Prompt: prompt})
	require.NoError(t, err)
	alt, err := e.svc.Alternatives.Create(ctx, models.CreateAlternativeRequest{
		Description: prompt + " option",
		QuestionID:  q.ID,
	})
	require.NoError(t, err)
	return q.ID, alt.ID
}

func (e testEnv) client(t *testing.T, company string) string {
	t.Helper()
	c, err := e.svc.Clients.CreateClient(context.Background(), models.CreateClientRequest{
		Name:        "Contact",
		CompanyName: company,
		Phone:       "555 0100",
	})
	require.NoError(t, err)
	return c.ID
}

// call runs h with an optional {id} path variable and authenticated caller.
func call(h http.HandlerFunc, req *http.Request, id string, caller *models.User) *httptest.ResponseRecorder {
	if id != "" {
		req = mux.SetURLVars(req, map[string]string{"id": id})
	}
	if caller != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), &auth.Claims{
			UserID: caller.ID,
			Role:   caller.Role,
		}))
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.Message
}
