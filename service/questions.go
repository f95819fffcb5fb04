// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
	"github.com/danielhkuo/budget-intake/validation"
)

// QuestionService manages the questionnaire.
type QuestionService struct {
	questions    store.QuestionRepository
	alternatives store.AlternativeRepository
}

func (s *QuestionService) Create(ctx context.Context, req models.CreateQuestionRequest) (models.Question, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return models.Question{}, apperr.Validation("prompt is required")
	}

	q, err := s.questions.CreateQuestion(ctx, models.Question{
		ID:        validation.NewID(),
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return models.Question{}, err
	}

	slog.Info("question created", "question_id", q.ID)
	return q, nil
}

// FindAll returns every question with its alternatives and team hours.
func (s *QuestionService) FindAll(ctx context.Context) ([]models.QuestionWithAlternatives, error) {
	questions, err := s.questions.FindAllQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return s.withAlternatives(ctx, questions)
}

func (s *QuestionService) FindByID(ctx context.Context, id string) (models.QuestionWithAlternatives, error) {
	q, err := s.VerifyQuestionExist(ctx, id)
	if err != nil {
		return models.QuestionWithAlternatives{}, err
	}

	out, err := s.withAlternatives(ctx, []models.Question{q})
	if err != nil {
		return models.QuestionWithAlternatives{}, err
	}
	return out[0], nil
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if err := s.questions.DeleteQuestionByID(ctx, id); err != nil {
		return notFound(err, "Question with id '%s' not found", id)
	}
	slog.Info("question deleted", "question_id", id)
	return nil
}

// VerifyQuestionExist fetches a question or fails with NotFound.
func (s *QuestionService) VerifyQuestionExist(ctx context.Context, id string) (models.Question, error) {
	q, err := s.questions.FindQuestionByID(ctx, id)
	if err != nil {
		return models.Question{}, notFound(err, "Question with id '%s' not found", id)
	}
	return q, nil
}

// VerifyRelationshipBetweenQuestionAndAlternative fails with a validation
// error unless the alternative exists and belongs to the question.
func (s *QuestionService) VerifyRelationshipBetweenQuestionAndAlternative(ctx context.Context, questionID, alternativeID string) error {
	alt, err := s.alternatives.FindAlternativeByID(ctx, alternativeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Validation("Alternative with id '%s' not found", alternativeID)
		}
		return err
	}
	if alt.QuestionID != questionID {
		return apperr.Validation("alternative '%s' does not belong to question '%s'", alternativeID, questionID)
	}
	return nil
}

func (s *QuestionService) withAlternatives(ctx context.Context, questions []models.Question) ([]models.QuestionWithAlternatives, error) {
	out := make([]models.QuestionWithAlternatives, len(questions))
	if len(questions) == 0 {
		return out, nil
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	alts, err := s.alternatives.FindAlternativesByQuestions(ctx, ids)
	if err != nil {
		return nil, err
	}
	details, err := alternativeDetails(ctx, s.alternatives, alts)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string][]models.AlternativeDetail)
	for _, d := range details {
		byQuestion[d.QuestionID] = append(byQuestion[d.QuestionID], d)
	}
	for i, q := range questions {
		out[i] = models.QuestionWithAlternatives{Question: q, Alternatives: byQuestion[q.ID]}
		if out[i].Alternatives == nil {
			out[i].Alternatives = []models.AlternativeDetail{}
		}
	}
	return out, nil
}

// alternativeDetails attaches team hours to each alternative.
func alternativeDetails(ctx context.Context, repo store.AlternativeRepository, alts []models.Alternative) ([]models.AlternativeDetail, error) {
	if len(alts) == 0 {
		return nil, nil
	}

	ids := make([]string, len(alts))
	for i, a := range alts {
		ids[i] = a.ID
	}
	teams, err := repo.FindAlternativesTeams(ctx, ids)
	if err != nil {
		return nil, err
	}

	byAlt := make(map[string][]models.AlternativeTeam)
	for _, t := range teams {
		byAlt[t.AlternativeID] = append(byAlt[t.AlternativeID], t)
	}

	out := make([]models.AlternativeDetail, len(alts))
	for i, a := range alts {
		out[i] = models.AlternativeDetail{Alternative: a, Teams: byAlt[a.ID]}
		if out[i].Teams == nil {
			out[i].Teams = []models.AlternativeTeam{}
		}
	}
	return out, nil
}
