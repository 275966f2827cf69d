package store

import (
	"cmp"
	"slices"
	"strings"

	"budgetdash/internal/core"
)

// MatchesDepartment reports whether row belongs to department. Surrounding
// whitespace is ignored on both sides, as it is in ListDepartments.
func MatchesDepartment(row core.RawRow, department string) bool {
	return strings.TrimSpace(row.AccountBudgetA) == strings.TrimSpace(department)
}

// FilterByDepartment returns the rows of department ordered by used amount,
// largest first. It is for adapters that cannot filter server-side.
func FilterByDepartment(rows []core.RawRow, department string) []core.RawRow {
	var out []core.RawRow
	for _, r := range rows {
		if MatchesDepartment(r, department) {
			out = append(out, r)
		}
	}
	SortByUsedDesc(out)
	return out
}

// SortByUsedDesc orders rows by coerced used amount, largest first, the way
// the database backends order them. Ties keep their input order.
func SortByUsedDesc(rows []core.RawRow) {
	slices.SortStableFunc(rows, func(a, b core.RawRow) int {
		return cmp.Compare(b.UsedAmt.Float(), a.UsedAmt.Float())
	})
}

// DepartmentNames returns the trimmed, de-duplicated, sorted department
// labels of rows. Blank labels are skipped.
func DepartmentNames(rows []core.RawRow) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.AccountBudgetA)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
