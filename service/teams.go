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

type TeamService struct {
	teams store.TeamRepository
}

func (s *TeamService) Create(ctx context.Context, req models.CreateTeamRequest) (models.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Team{}, apperr.Validation("team name is required")
	}

	t, err := s.teams.CreateTeam(ctx, models.Team{
		ID:        validation.NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return models.Team{}, err
	}

	slog.Info("team created", "team_id", t.ID, "name", t.Name)
	return t, nil
}

func (s *TeamService) FindAll(ctx context.Context) ([]models.Team, error) {
	return s.teams.FindAllTeams(ctx)
}

// VerifyTeamExist fetches a team or fails with NotFound.
func (s *TeamService) VerifyTeamExist(ctx context.Context, id string) (models.Team, error) {
	t, err := s.teams.FindTeamByID(ctx, id)
	if err != nil {
		return models.Team{}, notFound(err, "Team with id '%s' not found", id)
	}
	return t, nil
}
