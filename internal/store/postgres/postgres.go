// Package postgres reads budget rows from the managed Postgres database that
// owns the municipal_budget table. The schema is not migrated from here.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"budgetdash/internal/core"
	"budgetdash/internal/store"
)

var (
	_ store.Store  = (*Repo)(nil)
	_ store.Pinger = (*Repo)(nil)
)

// Numeric columns are read as text so coercion stays in core. Department
// labels are compared and listed with surrounding whitespace removed.
const (
	queryByDepartment = `
SELECT id::text,
       COALESCE(account, ''),
       COALESCE(glcode, ''),
       COALESCE(account_budget_a, ''),
       COALESCE(used_amt::text, ''),
       COALESCE(remaining_amt::text, ''),
       COALESCE(budget_a::text, ''),
       COALESCE(created_at::text, ''),
       COALESCE(file_id::text, ''),
       COALESCE(user_id::text, '')
FROM municipal_budget
WHERE btrim(account_budget_a, E' \t\r\n') = $1
ORDER BY used_amt DESC NULLS LAST`

	listDepartments = `
SELECT DISTINCT btrim(account_budget_a, E' \t\r\n') AS department
FROM municipal_budget
WHERE account_budget_a IS NOT NULL AND btrim(account_budget_a, E' \t\r\n') <> ''
ORDER BY department`
)

type Repo struct {
	DB *pgxpool.Pool
}

// Open creates a connection pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*Repo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Repo{DB: pool}, nil
}

func (r *Repo) Close() error {
	if r.DB != nil {
		r.DB.Close()
	}
	return nil
}

// Ping implements store.Pinger.
func (r *Repo) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}

// QueryByDepartment implements store.BudgetReader.
func (r *Repo) QueryByDepartment(ctx context.Context, department string) ([]core.RawRow, error) {
	rows, err := r.DB.Query(ctx, queryByDepartment, department)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", store.Table, err)
	}
	out, err := pgx.CollectRows(rows, scanRow)
	if err != nil {
		return nil, fmt.Errorf("collect %s rows: %w", store.Table, err)
	}
	return out, nil
}

// ListDepartments implements store.DepartmentLister.
func (r *Repo) ListDepartments(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, listDepartments)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect departments: %w", err)
	}
	return out, nil
}

func scanRow(row pgx.CollectableRow) (core.RawRow, error) {
	var (
		r                        core.RawRow
		used, remaining, budgetA string
	)
	err := row.Scan(
		&r.ID,
		&r.Account,
		&r.GLCode,
		&r.AccountBudgetA,
		&used,
		&remaining,
		&budgetA,
		&r.CreatedAt,
		&r.FileID,
		&r.UserID,
	)
	r.UsedAmt = core.Amount(used)
	r.RemainingAmt = core.Amount(remaining)
	r.BudgetA = core.Amount(budgetA)
	return r, err
}
