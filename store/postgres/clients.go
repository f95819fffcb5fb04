// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
)

const clientColumns = `id, name, company_name, email, phone, technical_contact_phone, created_at`

func scanClient(row scanner) (models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.CompanyName, &c.Email, &c.Phone, &c.TechnicalContactPhone, &c.CreatedAt)
	return c, err
}

// CreateClient relies on the unique company_name constraint: a concurrent
// insert for the same company resolves to the row that won. If that row is
// deleted before it can be read back, the insert is attempted once more.
func (s *Store) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	for attempt := 0; attempt < 2; attempt++ {
		created, err := s.insertClient(ctx, c)
		if !errors.Is(err, sql.ErrNoRows) {
			if err != nil {
				return models.Client{}, classify(err, "insert client")
			}
			return created, nil
		}

		existing, err := s.FindClientByCompanyName(ctx, c.CompanyName)
		if !errors.Is(err, store.ErrNotFound) {
			return existing, err
		}
	}
	return models.Client{}, apperr.Storage("client '"+c.CompanyName+"' was removed while being registered", store.ErrNotFound)
}

func (s *Store) insertClient(ctx context.Context, c models.Client) (models.Client, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO clients (id, name, company_name, email, phone, technical_contact_phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_name) DO NOTHING
		RETURNING `+clientColumns,
		c.ID, c.Name, c.CompanyName, c.Email, c.Phone, c.TechnicalContactPhone, c.CreatedAt)
	return scanClient(row)
}

func (s *Store) FindClientByCompanyName(ctx context.Context, companyName string) (models.Client, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE company_name = $1
	`, companyName)

	c, err := scanClient(row)
	if err != nil {
		return models.Client{}, classify(err, "query client")
	}
	return c, nil
}

func (s *Store) FindClientByID(ctx context.Context, id string) (models.Client, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1
	`, id)

	c, err := scanClient(row)
	if err != nil {
		return models.Client{}, classify(err, "query client")
	}
	return c, nil
}

func (s *Store) FindAllClients(ctx context.Context) ([]models.Client, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, classify(err, "query clients")
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, classify(err, "scan client")
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query clients")
	}
	return clients, nil
}

func (s *Store) DeleteClientByID(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete client")
	}
	return expectAffected(res, "delete client")
}

// CreateClientResponses writes the whole batch in one statement. A foreign
// key violation is reported as the reference that was wrong.
func (s *Store) CreateClientResponses(ctx context.Context, responses []models.ClientResponse) error {
	rows := make([][]any, 0, len(responses))
	for _, r := range responses {
		rows = append(rows, []any{
			r.ID, r.BudgetRequestID, r.ClientID, r.QuestionID, r.AlternativeID, r.ResponseDetails, r.CreatedAt,
		})
	}

	err := insertMany(ctx, s.conn(ctx), `
		INSERT INTO clients_responses (id, budget_request_id, client_id, question_id, alternative_id, response_details, created_at)`,
		rows)
	if err != nil {
		return classify(err, "insert client responses")
	}
	return nil
}

func (s *Store) FindClientResponses(ctx context.Context, budgetRequestIDs []string) ([]models.ClientResponse, error) {
	out := []models.ClientResponse{}
	if len(budgetRequestIDs) == 0 {
		return out, nil
	}

	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT id, budget_request_id, client_id, question_id, alternative_id, response_details, created_at
		FROM clients_responses
		WHERE budget_request_id = ANY($1)
		ORDER BY created_at, id
	`, pq.Array(budgetRequestIDs))
	if err != nil {
		return nil, classify(err, "query client responses")
	}
	defer rows.Close()

	for rows.Next() {
		var r models.ClientResponse
		if err := rows.Scan(&r.ID, &r.BudgetRequestID, &r.ClientID, &r.QuestionID,
			&r.AlternativeID, &r.ResponseDetails, &r.CreatedAt); err != nil {
			return nil, classify(err, "scan client response")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query client responses")
	}
	return out, nil
}
