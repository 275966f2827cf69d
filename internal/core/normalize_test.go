package core

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		in  Amount
		out float64
	}{
		{"50000", 50000},
		{" 1234.5 ", 1234.5},
		{"0", 0},
		{"-10", -10},
		{"1e3", 1000},
		{"", 0},
		{"abc", 0},
		{"12,000", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"1e400", 0},
		{"1e99999999", 0},
		{"-1e99999999", 0},
		{"1e-99999999", 0},
	}
	for _, tc := range cases {
		if got := CoerceAmount(tc.in); got != tc.out {
			t.Fatalf("CoerceAmount(%q) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestResolveCategory(t *testing.T) {
	cases := []struct {
		name string
		row  RawRow
		want string
	}{
		{"primary", RawRow{AccountBudgetA: "Roads", GLCode: "GL-1"}, "Roads"},
		{"fallback code", RawRow{GLCode: "GL-1"}, "GL-1"},
		{"whitespace primary", RawRow{AccountBudgetA: "  ", GLCode: "GL-2"}, "GL-2"},
		{"nothing", RawRow{Account: "A-1"}, UnknownCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveCategory(tc.row); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeScenario(t *testing.T) {
	rows := []RawRow{
		{ID: "1", AccountBudgetA: "Roads", UsedAmt: "50000"},
		{ID: "2", AccountBudgetA: "Health", UsedAmt: "0"},
		{ID: "3", AccountBudgetA: "", UsedAmt: "30000"},
	}
	got := Normalize(rows)
	want := []BudgetItem{{ID: "1", Category: "Roads", Amount: 50000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNormalizeFilters(t *testing.T) {
	rows := []RawRow{
		{ID: "", AccountBudgetA: "No id", UsedAmt: "10"},
		{ID: "a", AccountBudgetA: "Negative", UsedAmt: "-5"},
		{ID: "b", AccountBudgetA: "Garbage", UsedAmt: "n/a"},
		{ID: "c", GLCode: "GL-9", UsedAmt: "7"},
		{ID: "d", AccountBudgetA: UnknownCategory, UsedAmt: "8"},
		{ID: "e", AccountBudgetA: "Water", UsedAmt: "3.5"},
		{ID: "f", AccountBudgetA: "Water", UsedAmt: "1"},
	}
	got := Normalize(rows)
	want := []BudgetItem{
		{ID: "c", Category: "GL-9", Amount: 7},
		{ID: "e", Category: "Water", Amount: 3.5},
		{ID: "f", Category: "Water", Amount: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNormalizeOutputInvariant(t *testing.T) {
	amounts := []Amount{"", "0", "-1", "1", "0.0001", "abc", "1e400", "99999999", "null", "1e99999999", "1e-99999999"}
	cats := []string{"", " ", "Roads", UnknownCategory}
	var rows []RawRow
	for i, a := range amounts {
		for j, c := range cats {
			rows = append(rows, RawRow{
				ID:             string(rune('a'+i)) + string(rune('a'+j)),
				AccountBudgetA: c,
				UsedAmt:        a,
			})
		}
	}
	for _, it := range Normalize(rows) {
		if !(it.Amount > 0) || math.IsInf(it.Amount, 0) {
			t.Fatalf("item with invalid amount surfaced: %+v", it)
		}
		if it.Category == "" || it.Category == UnknownCategory {
			t.Fatalf("item with invalid category surfaced: %+v", it)
		}
	}
}

func TestNormalizeHugeExponentsAreFast(t *testing.T) {
	rows := []RawRow{
		{ID: "1", AccountBudgetA: "Roads", UsedAmt: "1e99999999"},
		{ID: "2", AccountBudgetA: "Roads", UsedAmt: "1e-99999999"},
		{ID: "3", AccountBudgetA: "Roads", UsedAmt: "9e999999999999"},
		{ID: "4", AccountBudgetA: "Health", UsedAmt: "250"},
	}
	start := time.Now()
	items := Normalize(rows)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Normalize took %v", elapsed)
	}
	if len(items) != 1 || items[0].ID != "4" {
		t.Fatalf("items = %+v, want only id 4", items)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Fatalf("expected no items, got %v", got)
	}
}

func TestSortByAmountDescIsStable(t *testing.T) {
	items := []BudgetItem{
		{ID: "1", Category: "A", Amount: 10},
		{ID: "2", Category: "B", Amount: 30},
		{ID: "3", Category: "C", Amount: 10},
		{ID: "4", Category: "D", Amount: 20},
	}
	got := SortByAmountDesc(items)
	ids := make([]string, len(got))
	for i, it := range got {
		ids[i] = it.ID
	}
	if want := []string{"2", "4", "1", "3"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("order = %v, want %v", ids, want)
	}
	if items[0].ID != "1" {
		t.Fatalf("input slice was mutated: %v", items)
	}
}

func TestAmountJSON(t *testing.T) {
	var rows []RawRow
	body := `[{"id":"1","used_amt":50000},{"id":"2","used_amt":"1200.50"},{"id":"3","used_amt":null},{"id":"4","used_amt":true}]`
	if err := json.Unmarshal([]byte(body), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []Amount{"50000", "1200.50", "", ""}
	for i, r := range rows {
		if r.UsedAmt != want[i] {
			t.Fatalf("row %d used_amt = %q, want %q", i, r.UsedAmt, want[i])
		}
	}

	out, err := json.Marshal(RawRow{ID: "x", UsedAmt: "42", RemainingAmt: "oops"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal back: %v", err)
	}
	if back["used_amt"] != float64(42) {
		t.Fatalf("used_amt = %#v, want number 42", back["used_amt"])
	}
	if back["remaining_amt"] != "oops" {
		t.Fatalf("remaining_amt = %#v, want string", back["remaining_amt"])
	}
}
