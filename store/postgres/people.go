// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package postgres

import (
	"context"
	"time"

	"github.com/danielhkuo/budget-intake/models"
)

// --- Users ------------------------------------------------------------------

const userColumns = `id, name, email, role, password_hash, created_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO users (id, name, email, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return models.User{}, classify(err, "insert user")
	}
	return u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(s.conn(ctx).QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if err != nil {
		return models.User{}, classify(err, "query user")
	}
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(s.conn(ctx).QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
	if err != nil {
		return models.User{}, classify(err, "query user")
	}
	return u, nil
}

// --- Projects ---------------------------------------------------------------

func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO projects (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Name, p.Description, p.CreatedAt)
	if err != nil {
		return models.Project{}, classify(err, "insert project")
	}
	return p, nil
}

func (s *Store) FindProjectByID(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, name, description, created_at FROM projects WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		return models.Project{}, classify(err, "query project")
	}
	return p, nil
}

func (s *Store) FindAllProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT id, name, description, created_at FROM projects ORDER BY name, id
	`)
	if err != nil {
		return nil, classify(err, "query projects")
	}
	defer rows.Close()

	out := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, classify(err, "scan project")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query projects")
	}
	return out, nil
}

// --- Overtime requests ------------------------------------------------------

const overtimeColumns = `id, project_id, user_id, work_date, hours, reason, status, decider_id, decided_at, created_at`

func scanOvertime(row scanner) (models.OvertimeRequest, error) {
	var o models.OvertimeRequest
	err := row.Scan(&o.ID, &o.ProjectID, &o.UserID, &o.Date, &o.Hours, &o.Reason,
		&o.Status, &o.DeciderID, &o.DecidedAt, &o.CreatedAt)
	return o, err
}

func (s *Store) CreateOvertimeRequest(ctx context.Context, o models.OvertimeRequest) (models.OvertimeRequest, error) {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO overtime_requests (id, project_id, user_id, work_date, hours, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, o.ID, o.ProjectID, o.UserID, o.Date, o.Hours, o.Reason, o.Status, o.CreatedAt)
	if err != nil {
		return models.OvertimeRequest{}, classify(err, "insert overtime request")
	}
	return o, nil
}

func (s *Store) FindOvertimeRequestByID(ctx context.Context, id string) (models.OvertimeRequest, error) {
	o, err := scanOvertime(s.conn(ctx).QueryRowContext(ctx, `
		SELECT `+overtimeColumns+` FROM overtime_requests WHERE id = $1
	`, id))
	if err != nil {
		return models.OvertimeRequest{}, classify(err, "query overtime request")
	}
	return o, nil
}

func (s *Store) FindOvertimeRequests(ctx context.Context, userID string) ([]models.OvertimeRequest, error) {
	query := `SELECT ` + overtimeColumns + ` FROM overtime_requests`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "query overtime requests")
	}
	defer rows.Close()

	out := []models.OvertimeRequest{}
	for rows.Next() {
		o, err := scanOvertime(rows)
		if err != nil {
			return nil, classify(err, "scan overtime request")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query overtime requests")
	}
	return out, nil
}

func (s *Store) DecideOvertimeRequest(ctx context.Context, id, status, deciderID string, decidedAt time.Time) (models.OvertimeRequest, error) {
	o, err := scanOvertime(s.conn(ctx).QueryRowContext(ctx, `
		UPDATE overtime_requests
		SET status = $1, decider_id = $2, decided_at = $3
		WHERE id = $4 AND status = $5
		RETURNING `+overtimeColumns,
		status, deciderID, decidedAt, id, models.OvertimeStatusPending))
	if err != nil {
		return models.OvertimeRequest{}, classify(err, "update overtime request")
	}
	return o, nil
}

// --- Notifications ----------------------------------------------------------

func (s *Store) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO notifications (id, audience, recipient_id, title, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, n.ID, n.Audience, n.RecipientID, n.Title, n.Message, n.CreatedAt)
	if err != nil {
		return models.Notification{}, classify(err, "insert notification")
	}
	return n, nil
}

// FindNotifications returns the newest notifications addressed to the user
// directly or to the user's role.
func (s *Store) FindNotifications(ctx context.Context, userID string, role models.Role, limit int) ([]models.Notification, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT id, audience, recipient_id, title, message, created_at
		FROM notifications
		WHERE recipient_id = $1 OR audience = $2
		ORDER BY created_at DESC, id
		LIMIT $3
	`, userID, role, limit)
	if err != nil {
		return nil, classify(err, "query notifications")
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Audience, &n.RecipientID, &n.Title, &n.Message, &n.CreatedAt); err != nil {
			return nil, classify(err, "scan notification")
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query notifications")
	}
	return out, nil
}
