// Package store defines the ports to the backing store holding budget rows.
// Implementations live in the sub-packages.
package store

import (
	"context"

	"budgetdash/internal/core"
)

// Table is the name of the budget table every backend reads from.
const Table = "municipal_budget"

// Ports for outbound adapters.
type (
	// BudgetReader returns the raw rows of one department.
	BudgetReader interface {
		// QueryByDepartment returns rows whose account_budget_a, ignoring
		// surrounding whitespace, equals department, ordered by used_amt
		// descending. It is one round trip.
		QueryByDepartment(ctx context.Context, department string) ([]core.RawRow, error)
	}

	// DepartmentLister lists the selectable departments.
	DepartmentLister interface {
		ListDepartments(ctx context.Context) ([]string, error)
	}

	// Store is what the budget service needs from a backend.
	Store interface {
		BudgetReader
		DepartmentLister
	}

	// Pinger is implemented by stores that can report their health.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
