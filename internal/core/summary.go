package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// Summarize computes the dashboard summary for a normalized item list.
// An empty list yields a zero total and no largest category.
func Summarize(items []BudgetItem) BudgetSummary {
	total := decimal.Zero
	var largest *CategoryAmount
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Amount))
		// Strict comparison keeps the first row on ties.
		if largest == nil || it.Amount > largest.Amount {
			largest = &CategoryAmount{Category: it.Category, Amount: it.Amount}
		}
	}
	return BudgetSummary{
		TotalBudget:        total.InexactFloat64(),
		LargestCategory:    largest,
		YearOverYearChange: 0,
	}
}

// Percentage returns amount as a share of total, rounded to one decimal.
// A zero total yields 0.
func Percentage(amount, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(amount/total*1000) / 10
}

// Percentages returns the share of each item in input order.
func Percentages(items []BudgetItem) []float64 {
	total := Summarize(items).TotalBudget
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = Percentage(it.Amount, total)
	}
	return out
}

// GroupByCategory sums items sharing a category, in first-seen order.
func GroupByCategory(items []BudgetItem) []CategoryAmount {
	index := make(map[string]int, len(items))
	var out []CategoryAmount
	for _, it := range items {
		if i, ok := index[it.Category]; ok {
			out[i].Amount = decimal.NewFromFloat(out[i].Amount).
				Add(decimal.NewFromFloat(it.Amount)).
				InexactFloat64()
			continue
		}
		index[it.Category] = len(out)
		out = append(out, CategoryAmount{Category: it.Category, Amount: it.Amount})
	}
	return out
}
