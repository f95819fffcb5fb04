// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/db"
	"github.com/danielhkuo/budget-intake/store"
)

// Store implements the repository interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var (
	_ store.Store                   = (*Store)(nil)
	_ store.Transactor              = (*Store)(nil)
	_ store.ClientRepository        = (*Store)(nil)
	_ store.BudgetRequestRepository = (*Store)(nil)
	_ store.QuestionRepository      = (*Store)(nil)
	_ store.AlternativeRepository   = (*Store)(nil)
	_ store.TeamRepository          = (*Store)(nil)
	_ store.UserRepository          = (*Store)(nil)
	_ store.ProjectRepository       = (*Store)(nil)
	_ store.OvertimeRepository      = (*Store)(nil)
	_ store.NotificationRepository  = (*Store)(nil)
)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type txKey struct{}

// conn returns the transaction carried by ctx, if any.
func (s *Store) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// InTx runs fn in a transaction. Nested calls join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage("failed to commit transaction", err)
	}
	return nil
}

// SQLSTATE codes for integrity violations
const (
	foreignKeyViolation pq.ErrorCode = "23503"
	uniqueViolation     pq.ErrorCode = "23505"
)

// constraintMessages maps known constraints to the reference a client got wrong.
var constraintMessages = map[string]string{
	db.ConstraintResponseQuestion:      "question id is incorrect",
	db.ConstraintResponseAlternative:   "alternative id is incorrect",
	db.ConstraintResponseClient:        "client id is incorrect",
	db.ConstraintResponseBudgetRequest: "budget request id is incorrect",
	db.ConstraintAlternativeQuestion:   "question id is incorrect",
	db.ConstraintAlternativeTeamTeam:   "team id is incorrect",
	db.ConstraintAlternativeTeamAlt:    "alternative id is incorrect",
	db.ConstraintBudgetRequestClient:   "client id is incorrect",
	db.ConstraintOvertimeProject:       "project id is incorrect",
	db.ConstraintOvertimeUser:          "user id is incorrect",
	db.ConstraintUserEmail:             "email already registered",
}

// classify turns a driver error into a domain error.
func classify(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case foreignKeyViolation, uniqueViolation:
			if msg, ok := constraintMessages[pqErr.Constraint]; ok {
				return apperr.Validation("%s", msg)
			}
		}
	}

	return apperr.Storage("failed to "+action, err)
}

// expectAffected returns store.ErrNotFound when a conditional mutation
// matched nothing.
func expectAffected(res sql.Result, action string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage("failed to "+action, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// insertMany builds one multi-row INSERT for rows of equal width.
func insertMany(ctx context.Context, q querier, prefix string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(" VALUES ")

	args := make([]any, 0, len(rows)*len(rows[0]))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", len(args)+j+1)
		}
		b.WriteString(")")
		args = append(args, row...)
	}

	_, err := q.ExecContext(ctx, b.String(), args...)
	return err
}
