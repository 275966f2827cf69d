// Package core holds the budget data model and the pure pipeline that turns
// backing-store rows into budget items and summaries.
//
// Nothing in this package performs I/O; every function is safe for
// concurrent use on distinct inputs.
package core

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ResolveCategory picks the display label for a row: the account budget
// label, then the GL code, then UnknownCategory.
func ResolveCategory(row RawRow) string {
	if v := strings.TrimSpace(row.AccountBudgetA); v != "" {
		return v
	}
	if v := strings.TrimSpace(row.GLCode); v != "" {
		return v
	}
	return UnknownCategory
}

// CoerceAmount converts a raw numeric-like value to a float64.
//
// Empty, non-numeric and non-finite input all coerce to 0, so that the
// filtering step can treat them as invalid rows.
func CoerceAmount(raw Amount) float64 {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return 0
	}
	// ParseFloat saturates huge exponents to ±Inf in constant time.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Normalize filters raw rows and maps the survivors to BudgetItems.
//
// Rows are dropped when they have no id, when the coerced used amount is not
// positive, or when no category can be resolved. Survivor order matches
// input order.
func Normalize(rows []RawRow) []BudgetItem {
	items := make([]BudgetItem, 0, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(row.ID)
		if id == "" {
			continue
		}
		amount := CoerceAmount(row.UsedAmt)
		if amount <= 0 {
			continue
		}
		category := ResolveCategory(row)
		if category == UnknownCategory {
			continue
		}
		items = append(items, BudgetItem{
			ID:       id,
			Category: category,
			Amount:   amount,
		})
	}
	return items
}

// SortByAmountDesc returns a copy of items ordered by amount, largest first.
// Equal amounts keep their relative order.
func SortByAmountDesc(items []BudgetItem) []BudgetItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b BudgetItem) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
	return sorted
}
