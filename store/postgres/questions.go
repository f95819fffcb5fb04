// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/danielhkuo/budget-intake/models"
)

// --- Questions --------------------------------------------------------------

func (s *Store) CreateQuestion(ctx context.Context, q models.Question) (models.Question, error) {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO questions (id, prompt, created_at)
		VALUES ($1, $2, $3)
	`, q.ID, q.Prompt, q.CreatedAt)
	if err != nil {
		return models.Question{}, classify(err, "insert question")
	}
	return q, nil
}

func (s *Store) FindQuestionByID(ctx context.Context, id string) (models.Question, error) {
	var q models.Question
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, prompt, created_at FROM questions WHERE id = $1
	`, id).Scan(&q.ID, &q.Prompt, &q.CreatedAt)
	if err != nil {
		return models.Question{}, classify(err, "query question")
	}
	return q, nil
}

func (s *Store) FindAllQuestions(ctx context.Context) ([]models.Question, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT id, prompt, created_at FROM questions ORDER BY created_at, id
	`)
	if err != nil {
		return nil, classify(err, "query questions")
	}
	defer rows.Close()

	out := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.CreatedAt); err != nil {
			return nil, classify(err, "scan question")
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query questions")
	}
	return out, nil
}

func (s *Store) DeleteQuestionByID(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete question")
	}
	return expectAffected(res, "delete question")
}

// --- Alternatives -----------------------------------------------------------

const alternativeColumns = `id, description, question_id, created_at`

func scanAlternative(row scanner) (models.Alternative, error) {
	var a models.Alternative
	err := row.Scan(&a.ID, &a.Description, &a.QuestionID, &a.CreatedAt)
	return a, err
}

func (s *Store) CreateAlternative(ctx context.Context, a models.Alternative) (models.Alternative, error) {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO alternatives (id, description, question_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.Description, a.QuestionID, a.CreatedAt)
	if err != nil {
		return models.Alternative{}, classify(err, "insert alternative")
	}
	return a, nil
}

func (s *Store) CreateAlternativesTeams(ctx context.Context, teams []models.AlternativeTeam) error {
	rows := make([][]any, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []any{t.AlternativeID, t.TeamID, t.WorkHours})
	}

	err := insertMany(ctx, s.conn(ctx), `
		INSERT INTO alternatives_teams (alternative_id, team_id, work_hours)`, rows)
	if err != nil {
		return classify(err, "insert alternative teams")
	}
	return nil
}

// ReplaceAlternativesTeams should run inside InTx so readers never see an
// alternative without its teams.
func (s *Store) ReplaceAlternativesTeams(ctx context.Context, alternativeID string, teams []models.AlternativeTeam) error {
	if _, err := s.conn(ctx).ExecContext(ctx, `
		DELETE FROM alternatives_teams WHERE alternative_id = $1
	`, alternativeID); err != nil {
		return classify(err, "delete alternative teams")
	}
	return s.CreateAlternativesTeams(ctx, teams)
}

func (s *Store) FindAlternativeByID(ctx context.Context, id string) (models.Alternative, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `
		SELECT `+alternativeColumns+` FROM alternatives WHERE id = $1
	`, id)

	a, err := scanAlternative(row)
	if err != nil {
		return models.Alternative{}, classify(err, "query alternative")
	}
	return a, nil
}

func (s *Store) FindAlternativesByQuestions(ctx context.Context, questionIDs []string) ([]models.Alternative, error) {
	out := []models.Alternative{}
	if len(questionIDs) == 0 {
		return out, nil
	}

	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT `+alternativeColumns+`
		FROM alternatives
		WHERE question_id = ANY($1)
		ORDER BY created_at, id
	`, pq.Array(questionIDs))
	if err != nil {
		return nil, classify(err, "query alternatives")
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAlternative(rows)
		if err != nil {
			return nil, classify(err, "scan alternative")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query alternatives")
	}
	return out, nil
}

func (s *Store) FindAlternativesTeams(ctx context.Context, alternativeIDs []string) ([]models.AlternativeTeam, error) {
	out := []models.AlternativeTeam{}
	if len(alternativeIDs) == 0 {
		return out, nil
	}

	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT alternative_id, team_id, work_hours
		FROM alternatives_teams
		WHERE alternative_id = ANY($1)
		ORDER BY alternative_id, team_id
	`, pq.Array(alternativeIDs))
	if err != nil {
		return nil, classify(err, "query alternative teams")
	}
	defer rows.Close()

	for rows.Next() {
		var t models.AlternativeTeam
		if err := rows.Scan(&t.AlternativeID, &t.TeamID, &t.WorkHours); err != nil {
			return nil, classify(err, "scan alternative team")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query alternative teams")
	}
	return out, nil
}

// UpdateAlternativeByID is a single conditional statement; a missing id
// yields store.ErrNotFound.
func (s *Store) UpdateAlternativeByID(ctx context.Context, id string, description *string) (models.Alternative, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `
		UPDATE alternatives
		SET description = COALESCE($2, description)
		WHERE id = $1
		RETURNING `+alternativeColumns,
		id, description)

	a, err := scanAlternative(row)
	if err != nil {
		return models.Alternative{}, classify(err, "update alternative")
	}
	return a, nil
}

func (s *Store) DeleteAlternativeByID(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM alternatives WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete alternative")
	}
	return expectAffected(res, "delete alternative")
}

// --- Teams ------------------------------------------------------------------

func (s *Store) CreateTeam(ctx context.Context, t models.Team) (models.Team, error) {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO teams (id, name, created_at)
		VALUES ($1, $2, $3)
	`, t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return models.Team{}, classify(err, "insert team")
	}
	return t, nil
}

func (s *Store) FindTeamByID(ctx context.Context, id string) (models.Team, error) {
	var t models.Team
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, name, created_at FROM teams WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return models.Team{}, classify(err, "query team")
	}
	return t, nil
}

func (s *Store) FindAllTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT id, name, created_at FROM teams ORDER BY name, id
	`)
	if err != nil {
		return nil, classify(err, "query teams")
	}
	defer rows.Close()

	out := []models.Team{}
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, classify(err, "scan team")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query teams")
	}
	return out, nil
}
