// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/metrics"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/notify"
	"github.com/danielhkuo/budget-intake/store"
)

// Actor is the authenticated caller of a workflow.
type Actor struct {
	UserID string
	Role   models.Role
}

// Services bundles the workflows served over HTTP.
type Services struct {
	Clients        *ClientService
	Alternatives   *AlternativeService
	Questions      *QuestionService
	Teams          *TeamService
	BudgetRequests *BudgetRequestService
	Users          *UserService
	Projects       *ProjectService
	Overtime       *OvertimeService
}

// New wires every workflow against st. Notifications go to n.
func New(st store.Store, n notify.Notifier) *Services {
	questions := &QuestionService{questions: st, alternatives: st}
	teams := &TeamService{teams: st}
	budgets := &BudgetRequestService{budgets: st, clients: st, notifier: n}
	projects := &ProjectService{projects: st}

	return &Services{
		Clients: &ClientService{
			tx:        st,
			clients:   st,
			budgets:   budgets,
			questions: questions,
		},
		Alternatives: &AlternativeService{
			tx:           st,
			alternatives: st,
			questions:    questions,
			teams:        teams,
		},
		Questions:      questions,
		Teams:          teams,
		BudgetRequests: budgets,
		Users:          &UserService{users: st},
		Projects:       projects,
		Overtime: &OvertimeService{
			overtime: st,
			projects: projects,
			notifier: n,
		},
	}
}

// notFound converts store.ErrNotFound into a NotFound error and passes
// anything else through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(format, args...)
	}
	return err
}

// announce delivers notifications without failing the workflow.
func announce(ctx context.Context, n notify.Notifier, notes ...models.Notification) {
	if n == nil {
		return
	}
	for _, note := range notes {
		err := n.Notify(ctx, note)
		metrics.RecordNotification(err)
		if err != nil {
			slog.Error("failed to deliver notification",
				"audience", note.Audience,
				"title", note.Title,
				"error", err,
			)
		}
	}
}
