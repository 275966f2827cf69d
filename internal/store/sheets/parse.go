package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"budgetdash/internal/core"
)

// parseRows maps a values matrix to rows using the header row. Header names
// are matched case-insensitively; unknown columns are ignored.
func parseRows(values [][]interface{}) ([]core.RawRow, error) {
	if len(values) == 0 {
		return nil, nil
	}
	header := toStrings(values[0])
	idx := func(name string) int { return indexOf(header, name) }
	col := map[string]int{
		"id":               idx("id"),
		"account":          idx("account"),
		"glcode":           idx("glcode"),
		"account_budget_a": idx("account_budget_a"),
		"used_amt":         idx("used_amt"),
		"remaining_amt":    idx("remaining_amt"),
		"budget_a":         idx("budget_a"),
		"created_at":       idx("created_at"),
		"file_id":          idx("file_id"),
		"user_id":          idx("user_id"),
	}
	if col["id"] < 0 || col["account_budget_a"] < 0 {
		return nil, errors.New("header row must contain id and account_budget_a")
	}

	out := make([]core.RawRow, 0, len(values)-1)
	for _, raw := range values[1:] {
		cells := toStrings(raw)
		get := func(name string) string { return safeGet(cells, col[name]) }
		if strings.TrimSpace(get("id")) == "" && strings.TrimSpace(get("account_budget_a")) == "" {
			continue
		}
		out = append(out, core.RawRow{
			ID:             get("id"),
			Account:        get("account"),
			GLCode:         get("glcode"),
			AccountBudgetA: get("account_budget_a"),
			UsedAmt:        core.Amount(get("used_amt")),
			RemainingAmt:   core.Amount(get("remaining_amt")),
			BudgetA:        core.Amount(get("budget_a")),
			CreatedAt:      get("created_at"),
			FileID:         get("file_id"),
			UserID:         get("user_id"),
		})
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case nil:
		case string:
			out[i] = x
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
