// Package sqlite is a local budget store on modernc.org/sqlite. The schema
// mirrors the managed municipal_budget table so the same rows can be served
// offline.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"budgetdash/internal/core"
	"budgetdash/internal/store"
)

var (
	_ store.Store  = (*Repository)(nil)
	_ store.Pinger = (*Repository)(nil)
)

// Department labels are compared and listed with surrounding whitespace
// removed so every listed name selects its rows.
const (
	queryByDepartment = `
SELECT id, account, glcode, account_budget_a,
       CAST(used_amt AS TEXT), CAST(remaining_amt AS TEXT), CAST(budget_a AS TEXT),
       created_at, file_id, user_id
FROM municipal_budget
WHERE TRIM(account_budget_a, ' ' || char(9) || char(10) || char(13)) = ?
ORDER BY CAST(used_amt AS REAL) DESC, rowid ASC`

	listDepartments = `
SELECT DISTINCT TRIM(account_budget_a, ' ' || char(9) || char(10) || char(13)) AS department
FROM municipal_budget
WHERE account_budget_a IS NOT NULL
  AND TRIM(account_budget_a, ' ' || char(9) || char(10) || char(13)) <> ''
ORDER BY department`

	upsertRow = `
INSERT INTO municipal_budget
    (id, account, glcode, account_budget_a, used_amt, remaining_amt, budget_a, created_at, file_id, user_id)
VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), ?, ?)
ON CONFLICT(id) DO UPDATE SET
    account = excluded.account,
    glcode = excluded.glcode,
    account_budget_a = excluded.account_budget_a,
    used_amt = excluded.used_amt,
    remaining_amt = excluded.remaining_amt,
    budget_a = excluded.budget_a,
    file_id = excluded.file_id,
    user_id = excluded.user_id`
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the database at dbPath and
// applies migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements store.Pinger.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// QueryByDepartment implements store.BudgetReader.
func (r *Repository) QueryByDepartment(ctx context.Context, department string) ([]core.RawRow, error) {
	rows, err := r.db.QueryContext(ctx, queryByDepartment, department)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", store.Table, err)
	}
	defer rows.Close()

	var out []core.RawRow
	for rows.Next() {
		var (
			id                        string
			account, glcode, dept     sql.NullString
			used, remaining, budgetA  sql.NullString
			createdAt, fileID, userID sql.NullString
		)
		if err := rows.Scan(&id, &account, &glcode, &dept, &used, &remaining, &budgetA, &createdAt, &fileID, &userID); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", store.Table, err)
		}
		out = append(out, core.RawRow{
			ID:             id,
			Account:        account.String,
			GLCode:         glcode.String,
			AccountBudgetA: dept.String,
			UsedAmt:        core.Amount(used.String),
			RemainingAmt:   core.Amount(remaining.String),
			BudgetA:        core.Amount(budgetA.String),
			CreatedAt:      createdAt.String,
			FileID:         fileID.String,
			UserID:         userID.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", store.Table, err)
	}
	return out, nil
}

// ListDepartments implements store.DepartmentLister.
func (r *Repository) ListDepartments(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listDepartments)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// InsertRows upserts rows by id inside one transaction. Rows without an id
// get a fresh UUID. It returns the number of rows written.
func (r *Repository) InsertRows(ctx context.Context, rows []core.RawRow) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertRow)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = uuid.NewString()
		}
		_, err := stmt.ExecContext(ctx,
			id,
			nullable(row.Account),
			nullable(row.GLCode),
			nullable(row.AccountBudgetA),
			nullable(string(row.UsedAmt)),
			nullable(string(row.RemainingAmt)),
			nullable(string(row.BudgetA)),
			nullable(row.CreatedAt),
			nullable(row.FileID),
			nullable(row.UserID),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert row %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Budget rows saved to SQLite", "count", len(rows))
	return len(rows), nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
