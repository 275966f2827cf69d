package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"budgetdash/internal/core"
	"budgetdash/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps budget rows in memory. It is meant for local development and
// tests.
type Store struct {
	mu   sync.Mutex
	rows []core.RawRow
}

func New(rows []core.RawRow) *Store {
	return &Store{rows: slices.Clone(rows)}
}

// NewFromFile seeds the store from a JSON array of rows. A missing file falls
// back to the built-in sample rows; a malformed one is an error.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(SampleRows()), nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	rows, err := DecodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return New(rows), nil
}

// DecodeRows parses a JSON array of budget rows.
func DecodeRows(data []byte) ([]core.RawRow, error) {
	var rows []core.RawRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Add appends rows to the store.
func (s *Store) Add(rows ...core.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// QueryByDepartment implements store.BudgetReader.
func (s *Store) QueryByDepartment(ctx context.Context, department string) ([]core.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return store.FilterByDepartment(s.rows, department), nil
}

// ListDepartments implements store.DepartmentLister.
func (s *Store) ListDepartments(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return store.DepartmentNames(s.rows), nil
}

// Ping implements store.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
