// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
)

const budgetRequestColumns = `id, client_id, status, pre_sale_approver_id, financial_approver_id, created_at, updated_at`

func scanBudgetRequest(row scanner) (models.BudgetRequest, error) {
	var br models.BudgetRequest
	err := row.Scan(&br.ID, &br.ClientID, &br.Status, &br.PreSaleApproverID,
		&br.FinancialApproverID, &br.CreatedAt, &br.UpdatedAt)
	return br, err
}

func (s *Store) CreateBudgetRequest(ctx context.Context, br models.BudgetRequest) (models.BudgetRequest, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO budget_requests (id, client_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+budgetRequestColumns,
		br.ID, br.ClientID, br.Status, br.CreatedAt, br.UpdatedAt)

	created, err := scanBudgetRequest(row)
	if err != nil {
		return models.BudgetRequest{}, classify(err, "insert budget request")
	}
	return created, nil
}

func (s *Store) FindBudgetRequestByID(ctx context.Context, id string) (models.BudgetRequest, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `
		SELECT `+budgetRequestColumns+`
		FROM budget_requests
		WHERE id = $1
	`, id)

	br, err := scanBudgetRequest(row)
	if err != nil {
		return models.BudgetRequest{}, classify(err, "query budget request")
	}
	return br, nil
}

func (s *Store) FindBudgetRequests(ctx context.Context, statuses []string) ([]models.BudgetRequest, error) {
	query := `SELECT ` + budgetRequestColumns + ` FROM budget_requests`
	var args []any
	if len(statuses) > 0 {
		query += ` WHERE status = ANY($1)`
		args = append(args, pq.Array(statuses))
	}
	query += ` ORDER BY created_at DESC, id`

	return s.queryBudgetRequests(ctx, query, args...)
}

func (s *Store) FindBudgetRequestsByClient(ctx context.Context, clientID string) ([]models.BudgetRequest, error) {
	return s.queryBudgetRequests(ctx, `
		SELECT `+budgetRequestColumns+`
		FROM budget_requests
		WHERE client_id = $1
		ORDER BY created_at DESC, id
	`, clientID)
}

func (s *Store) queryBudgetRequests(ctx context.Context, query string, args ...any) ([]models.BudgetRequest, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "query budget requests")
	}
	defer rows.Close()

	out := []models.BudgetRequest{}
	for rows.Next() {
		br, err := scanBudgetRequest(rows)
		if err != nil {
			return nil, classify(err, "scan budget request")
		}
		out = append(out, br)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query budget requests")
	}
	return out, nil
}

// DecideBudgetRequest is a compare-and-set on status.
func (s *Store) DecideBudgetRequest(ctx context.Context, id, from, to string, stage store.Stage, approverID string) (models.BudgetRequest, error) {
	column := "pre_sale_approver_id"
	if stage == store.StageFinancial {
		column = "financial_approver_id"
	}

	row := s.conn(ctx).QueryRowContext(ctx, `
		UPDATE budget_requests
		SET status = $1, `+column+` = $2, updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING `+budgetRequestColumns,
		to, approverID, time.Now().UTC(), id, from)

	br, err := scanBudgetRequest(row)
	if err != nil {
		return models.BudgetRequest{}, classify(err, "update budget request")
	}
	return br, nil
}
