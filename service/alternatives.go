// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
	"github.com/danielhkuo/budget-intake/validation"
)

// AlternativeService manages answer options and their team work hours.
type AlternativeService struct {
	tx           store.Transactor
	alternatives store.AlternativeRepository
	questions    *QuestionService
	teams        *TeamService
}

// Create validates the owning question and every team before writing the
// alternative and its team rows together.
func (s *AlternativeService) Create(ctx context.Context, req models.CreateAlternativeRequest) (models.AlternativeResponse, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return models.AlternativeResponse{}, apperr.Validation("description is required")
	}

	if _, err := s.questions.VerifyQuestionExist(ctx, req.QuestionID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return models.AlternativeResponse{}, apperr.Validation("Question with id '%s' not found", req.QuestionID)
		}
		return models.AlternativeResponse{}, err
	}
	if err := s.verifyTeams(ctx, req.Teams); err != nil {
		return models.AlternativeResponse{}, err
	}

	alt := models.Alternative{
		ID:          validation.NewID(),
		Description: description,
		QuestionID:  req.QuestionID,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		created, err := s.alternatives.CreateAlternative(ctx, alt)
		if err != nil {
			return err
		}
		alt = created
		return s.alternatives.CreateAlternativesTeams(ctx, teamRows(alt.ID, req.Teams))
	})
	if err != nil {
		return models.AlternativeResponse{}, err
	}

	slog.Info("alternative created",
		"alternative_id", alt.ID,
		"question_id", alt.QuestionID,
		"teams", len(req.Teams),
	)
	return toAlternativeResponse(alt), nil
}

func (s *AlternativeService) FindAlternativeByID(ctx context.Context, id string) (models.AlternativeDetail, error) {
	alt, err := s.VerifyAlternativeExist(ctx, id)
	if err != nil {
		return models.AlternativeDetail{}, err
	}

	details, err := alternativeDetails(ctx, s.alternatives, []models.Alternative{alt})
	if err != nil {
		return models.AlternativeDetail{}, err
	}
	return details[0], nil
}

// Update changes the description and, when teams is non-nil, replaces the
// team associations. A missing alternative is left untouched.
func (s *AlternativeService) Update(ctx context.Context, id string, req models.UpdateAlternativeRequest) (models.AlternativeResponse, error) {
	if _, err := s.VerifyAlternativeExist(ctx, id); err != nil {
		return models.AlternativeResponse{}, err
	}

	var description *string
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return models.AlternativeResponse{}, apperr.Validation("description must not be empty")
		}
		description = &d
	}
	if req.Teams != nil {
		if err := s.verifyTeams(ctx, req.Teams); err != nil {
			return models.AlternativeResponse{}, err
		}
	}

	var updated models.Alternative
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		alt, err := s.alternatives.UpdateAlternativeByID(ctx, id, description)
		if err != nil {
			return notFound(err, "Alternative with id '%s' not found", id)
		}
		updated = alt

		if req.Teams == nil {
			return nil
		}
		return s.alternatives.ReplaceAlternativesTeams(ctx, id, teamRows(id, req.Teams))
	})
	if err != nil {
		return models.AlternativeResponse{}, err
	}

	slog.Info("alternative updated", "alternative_id", id)
	return toAlternativeResponse(updated), nil
}

func (s *AlternativeService) Delete(ctx context.Context, id string) error {
	if err := s.alternatives.DeleteAlternativeByID(ctx, id); err != nil {
		return notFound(err, "Alternative with id '%s' not found", id)
	}
	slog.Info("alternative deleted", "alternative_id", id)
	return nil
}

// VerifyAlternativeExist fetches an alternative or fails with NotFound.
func (s *AlternativeService) VerifyAlternativeExist(ctx context.Context, id string) (models.Alternative, error) {
	alt, err := s.alternatives.FindAlternativeByID(ctx, id)
	if err != nil {
		return models.Alternative{}, notFound(err, "Alternative with id '%s' not found", id)
	}
	return alt, nil
}

func (s *AlternativeService) verifyTeams(ctx context.Context, teams []models.TeamHours) error {
	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.TeamID
	}
	if validation.HasDuplicates(ids) {
		return apperr.Validation("duplicate team reference")
	}

	for _, t := range teams {
		if t.WorkHours.IsNegative() {
			return apperr.Validation("work hours for team '%s' must not be negative", t.TeamID)
		}
		if !validation.HasCentPrecision(t.WorkHours) {
			return apperr.Validation("work hours for team '%s' must have at most 2 decimal places", t.TeamID)
		}
		if _, err := s.teams.VerifyTeamExist(ctx, t.TeamID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.Validation("Team with id '%s' not found", t.TeamID)
			}
			return err
		}
	}
	return nil
}

func teamRows(alternativeID string, teams []models.TeamHours) []models.AlternativeTeam {
	rows := make([]models.AlternativeTeam, len(teams))
	for i, t := range teams {
		rows[i] = models.AlternativeTeam{
			AlternativeID: alternativeID,
			TeamID:        t.TeamID,
			WorkHours:     t.WorkHours,
		}
	}
	return rows
}

func toAlternativeResponse(a models.Alternative) models.AlternativeResponse {
	return models.AlternativeResponse{
		ID:          a.ID,
		Description: a.Description,
		QuestionID:  a.QuestionID,
	}
}
