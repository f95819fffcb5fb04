// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/notify"
	"github.com/danielhkuo/budget-intake/store"
	"github.com/danielhkuo/budget-intake/validation"
)

const dateLayout = "2006-01-02"

var maxOvertimeHours = decimal.NewFromInt(24)

type ProjectService struct {
	projects store.ProjectRepository
}

func (s *ProjectService) Create(ctx context.Context, req models.CreateProjectRequest) (models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Project{}, apperr.Validation("project name is required")
	}

	p, err := s.projects.CreateProject(ctx, models.Project{
		ID:          validation.NewID(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return models.Project{}, err
	}

	slog.Info("project created", "project_id", p.ID)
	return p, nil
}

func (s *ProjectService) FindAll(ctx context.Context) ([]models.Project, error) {
	return s.projects.FindAllProjects(ctx)
}

func (s *ProjectService) VerifyProjectExist(ctx context.Context, id string) (models.Project, error) {
	p, err := s.projects.FindProjectByID(ctx, id)
	if err != nil {
		return models.Project{}, notFound(err, "Project with id '%s' not found", id)
	}
	return p, nil
}

// OvertimeService handles overtime requests from professional services.
type OvertimeService struct {
	overtime store.OvertimeRepository
	projects *ProjectService
	notifier notify.Notifier
}

// Create files an overtime request for the caller and notifies the people
// who decide it.
func (s *OvertimeService) Create(ctx context.Context, caller Actor, req models.CreateOvertimeRequest) (models.OvertimeRequest, error) {
	if _, err := s.projects.VerifyProjectExist(ctx, req.ProjectID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return models.OvertimeRequest{}, apperr.Validation("Project with id '%s' not found", req.ProjectID)
		}
		return models.OvertimeRequest{}, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return models.OvertimeRequest{}, apperr.Validation("date must be formatted as YYYY-MM-DD")
	}
	if !req.Hours.IsPositive() || req.Hours.GreaterThan(maxOvertimeHours) {
		return models.OvertimeRequest{}, apperr.Validation("hours must be greater than 0 and at most 24")
	}
	if !validation.HasCentPrecision(req.Hours) {
		return models.OvertimeRequest{}, apperr.Validation("hours must have at most 2 decimal places")
	}

	o, err := s.overtime.CreateOvertimeRequest(ctx, models.OvertimeRequest{
		ID:        validation.NewID(),
		ProjectID: req.ProjectID,
		UserID:    caller.UserID,
		Date:      date,
		Hours:     req.Hours,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    models.OvertimeStatusPending,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return models.OvertimeRequest{}, err
	}

	slog.Info("overtime request created",
		"overtime_request_id", o.ID,
		"user_id", o.UserID,
		"hours", o.Hours.String(),
	)

	msg := fmt.Sprintf("%s hours of overtime requested for %s.", o.Hours.String(), o.Date.Format(dateLayout))
	notes := make([]models.Notification, 0, 3)
	for _, role := range []models.Role{models.RoleManager, models.RoleAdmin, models.RoleProfessionalServices} {
		notes = append(notes, models.Notification{Audience: role, Title: "New overtime request", Message: msg})
	}
	announce(ctx, s.notifier, notes...)

	return o, nil
}

// FindAll returns every request for deciders and only the caller's own
// requests for everyone else.
func (s *OvertimeService) FindAll(ctx context.Context, caller Actor) ([]models.OvertimeRequest, error) {
	if canDecideOvertime(caller.Role) {
		return s.overtime.FindOvertimeRequests(ctx, "")
	}
	return s.overtime.FindOvertimeRequests(ctx, caller.UserID)
}

// Decide approves or rejects a pending request and tells the requester.
func (s *OvertimeService) Decide(ctx context.Context, caller Actor, id string, req models.DecideOvertimeRequest) (models.OvertimeRequest, error) {
	if !canDecideOvertime(caller.Role) {
		return models.OvertimeRequest{}, apperr.Forbidden("role cannot decide overtime requests")
	}

	current, err := s.overtime.FindOvertimeRequestByID(ctx, id)
	if err != nil {
		return models.OvertimeRequest{}, notFound(err, "Overtime request with id '%s' not found", id)
	}
	if current.Status != models.OvertimeStatusPending {
		return models.OvertimeRequest{}, apperr.Validation("overtime request is already %s", current.Status)
	}

	status := models.OvertimeStatusRejected
	if req.Approved {
		status = models.OvertimeStatusApproved
	}

	decided, err := s.overtime.DecideOvertimeRequest(ctx, id, status, caller.UserID, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return models.OvertimeRequest{}, apperr.Validation("overtime request was decided concurrently")
	}
	if err != nil {
		return models.OvertimeRequest{}, err
	}

	slog.Info("overtime request decided",
		"overtime_request_id", id,
		"decider_id", caller.UserID,
		"status", status,
	)

	requester := decided.UserID
	announce(ctx, s.notifier, models.Notification{
		RecipientID: &requester,
		Title:       "Overtime request " + status,
		Message:     fmt.Sprintf("Your overtime request for %s was %s.", decided.Date.Format(dateLayout), status),
	})
	return decided, nil
}

func canDecideOvertime(role models.Role) bool {
	return role == models.RoleManager || role == models.RoleAdmin
}
