// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema applies every migration inside one transaction.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// Constraint names referenced by store/postgres when classifying
// integrity violations.
const (
	ConstraintClientCompanyName     = "clients_company_name_key"
	ConstraintUserEmail             = "users_email_key"
	ConstraintResponseQuestion      = "clients_responses_question_id_fkey"
	ConstraintResponseAlternative   = "clients_responses_alternative_id_fkey"
	ConstraintResponseClient        = "clients_responses_client_id_fkey"
	ConstraintResponseBudgetRequest = "clients_responses_budget_request_id_fkey"
	ConstraintAlternativeQuestion   = "alternatives_question_id_fkey"
	ConstraintAlternativeTeamTeam   = "alternatives_teams_team_id_fkey"
	ConstraintAlternativeTeamAlt    = "alternatives_teams_alternative_id_fkey"
	ConstraintBudgetRequestClient   = "budget_requests_client_id_fkey"
	ConstraintOvertimeProject       = "overtime_requests_project_id_fkey"
	ConstraintOvertimeUser          = "overtime_requests_user_id_fkey"
)

var migrations = []string{
	// Users
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('admin', 'pre-sale', 'financial', 'manager', 'professional-services')),
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CONSTRAINT users_email_key UNIQUE (email)
);`,

	// Clients; company_name is the find-or-create key
	`CREATE TABLE IF NOT EXISTS clients (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    company_name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    technical_contact_phone TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CONSTRAINT clients_company_name_key UNIQUE (company_name)
);`,

	// Questions and teams
	`CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    prompt TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS teams (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`,

	// Alternatives with per-team work hours
	`CREATE TABLE IF NOT EXISTS alternatives (
    id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    question_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CONSTRAINT alternatives_question_id_fkey FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_alternatives_question_id ON alternatives(question_id);

CREATE TABLE IF NOT EXISTS alternatives_teams (
    alternative_id TEXT NOT NULL,
    team_id TEXT NOT NULL,
    work_hours NUMERIC(8, 2) NOT NULL CHECK (work_hours >= 0),
    PRIMARY KEY (alternative_id, team_id),
    CONSTRAINT alternatives_teams_alternative_id_fkey FOREIGN KEY (alternative_id) REFERENCES alternatives(id) ON DELETE CASCADE,
    CONSTRAINT alternatives_teams_team_id_fkey FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE
);`,

	// Budget requests and the responses that created them
	`CREATE TABLE IF NOT EXISTS budget_requests (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'pre_sale_approved', 'approved', 'rejected')),
    pre_sale_approver_id TEXT REFERENCES users(id) ON DELETE SET NULL,
    financial_approver_id TEXT REFERENCES users(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CONSTRAINT budget_requests_client_id_fkey FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_budget_requests_client_id ON budget_requests(client_id);
CREATE INDEX IF NOT EXISTS idx_budget_requests_status ON budget_requests(status);

CREATE TABLE IF NOT EXISTS clients_responses (
    id TEXT PRIMARY KEY,
    budget_request_id TEXT NOT NULL,
    client_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    alternative_id TEXT,
    response_details TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CHECK ((alternative_id IS NULL) <> (response_details IS NULL)),
    CONSTRAINT clients_responses_budget_request_id_fkey FOREIGN KEY (budget_request_id) REFERENCES budget_requests(id) ON DELETE CASCADE,
    CONSTRAINT clients_responses_client_id_fkey FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
    CONSTRAINT clients_responses_question_id_fkey FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE,
    CONSTRAINT clients_responses_alternative_id_fkey FOREIGN KEY (alternative_id) REFERENCES alternatives(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_clients_responses_budget_request_id ON clients_responses(budget_request_id);`,

	// Projects and overtime
	`CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS overtime_requests (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    work_date DATE NOT NULL,
    hours NUMERIC(4, 2) NOT NULL CHECK (hours > 0 AND hours <= 24),
    reason TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    decider_id TEXT REFERENCES users(id) ON DELETE SET NULL,
    decided_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CONSTRAINT overtime_requests_project_id_fkey FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
    CONSTRAINT overtime_requests_user_id_fkey FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_overtime_requests_user_id ON overtime_requests(user_id);`,

	// Notifications
	`CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    audience TEXT NOT NULL DEFAULT '',
    recipient_id TEXT REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notifications_audience ON notifications(audience);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient_id ON notifications(recipient_id);`,
}
