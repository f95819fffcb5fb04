// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store/memory"
)

type recorder struct {
	mu    sync.Mutex
	notes []models.Notification
	err   error
}

func (r *recorder) Notify(_ context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.notes = append(r.notes, n)
	return nil
}

func (r *recorder) audiences() []models.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Role, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Audience
	}
	return out
}

type fixture struct {
	svc   *Services
	store *memory.Store
	notes *recorder
}

func setup(t *testing.T) fixture {
	t.Helper()
	st := memory.New()
	rec := &recorder{}
	return fixture{svc: New(st, rec), store: st, notes: rec}
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), "error: %v", err)
}

// seedQuestion creates a question with one alternative and returns both ids.
func seedQuestion(t *testing.T, f fixture, prompt string) (string, string) {
	t.Helper()
	ctx := context.Background()

	q, err := f.svc.Questions.Create(ctx, models.CreateQuestionRequest{Prompt: prompt})
	require.NoError(t, err)
	alt, err := f.svc.Alternatives.Create(ctx, models.CreateAlternativeRequest{
		Description: prompt + " option",
		QuestionID:  q.ID,
	})
	require.NoError(t, err)
	return q.ID, alt.ID
}

func seedClient(t *testing.T, f fixture, company string) string {
	t.Helper()
	c, err := f.svc.Clients.CreateClient(context.Background(), models.CreateClientRequest{
		Name:        "Contact",
		CompanyName: company,
		Phone:       "(555) 010-0000",
	})
	require.NoError(t, err)
	return c.ID
}

func TestAnnounceLogsNotifierErrors(t *testing.T) {
	rec := &recorder{err: errors.New("hub down")}
	assert.NotPanics(t, func() {
		announce(context.Background(), rec, models.Notification{Audience: models.RoleAdmin})
	})
	announce(context.Background(), nil, models.Notification{})
}

func TestTeamsAndQuestions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Teams.Create(ctx, models.CreateTeamRequest{Name: "  "})
	assertKind(t, err, apperr.KindValidation)

	team, err := f.svc.Teams.Create(ctx, models.CreateTeamRequest{Name: " Backend "})
	require.NoError(t, err)
	assert.Equal(t, "Backend", team.Name)

	_, err = f.svc.Teams.VerifyTeamExist(ctx, "missing")
	assertKind(t, err, apperr.KindNotFound)

	qID, altID := seedQuestion(t, f, "Hosting")

	all, err := f.svc.Questions.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Alternatives, 1)
	assert.Equal(t, altID, all[0].Alternatives[0].ID)

	require.NoError(t, f.svc.Questions.VerifyRelationshipBetweenQuestionAndAlternative(ctx, qID, altID))
	err = f.svc.Questions.VerifyRelationshipBetweenQuestionAndAlternative(ctx, "other", altID)
	assertKind(t, err, apperr.KindValidation)

	require.NoError(t, f.svc.Questions.Delete(ctx, qID))
	_, err = f.svc.Questions.FindByID(ctx, qID)
	assertKind(t, err, apperr.KindNotFound)
	assertKind(t, f.svc.Questions.Delete(ctx, qID), apperr.KindNotFound)
}
