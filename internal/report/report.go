// Package report turns normalized budget items into the view models the
// dashboard templates render: a table, a bar series, a pie breakdown and the
// summary cards. Amounts stay numeric alongside their formatted strings.
package report

import (
	"budgetdash/internal/core"
	"budgetdash/internal/format"
)

// Palette is cycled over pie slices in order.
var Palette = []string{
	"#2563eb", "#16a34a", "#f59e0b", "#dc2626", "#7c3aed",
	"#0891b2", "#db2777", "#65a30d", "#ea580c", "#475569",
}

type TableRow struct {
	ID         string
	Category   string
	Amount     float64
	AmountText string
	Percent    string
}

type Table struct {
	Rows  []TableRow
	Total string
	Empty bool
}

// NewTable lists items largest first with each item's share of the total.
func NewTable(items []core.BudgetItem, f *format.Formatter) Table {
	total := core.Summarize(items).TotalBudget
	sorted := core.SortByAmountDesc(items)
	rows := make([]TableRow, 0, len(sorted))
	for _, it := range sorted {
		rows = append(rows, TableRow{
			ID:         it.ID,
			Category:   it.Category,
			Amount:     it.Amount,
			AmountText: f.Currency(it.Amount),
			Percent:    f.Percentage(core.Percentage(it.Amount, total)),
		})
	}
	return Table{Rows: rows, Total: f.Currency(total), Empty: len(rows) == 0}
}

type Bar struct {
	Category   string
	Amount     float64
	AmountText string
	Label      string
	// Width is the bar length in percent of the largest bar.
	Width float64
}

type Bars struct {
	Bars  []Bar
	Ticks []string
}

// NewBars keeps item order and scales every bar against the largest one.
// Ticks are compact labels at quarters of the largest amount.
func NewBars(items []core.BudgetItem, f *format.Formatter) Bars {
	var largest float64
	for _, it := range items {
		if it.Amount > largest {
			largest = it.Amount
		}
	}
	out := Bars{Bars: make([]Bar, 0, len(items))}
	for _, it := range items {
		out.Bars = append(out.Bars, Bar{
			Category:   it.Category,
			Amount:     it.Amount,
			AmountText: f.Currency(it.Amount),
			Label:      f.Compact(it.Amount),
			Width:      core.Percentage(it.Amount, largest),
		})
	}
	if largest > 0 {
		for i := 0; i <= 4; i++ {
			out.Ticks = append(out.Ticks, f.Compact(largest*float64(i)/4))
		}
	}
	return out
}

type Slice struct {
	Category   string
	Amount     float64
	AmountText string
	Percent    string
	Share      float64
	Color      string
	// Offset is the cumulative share before this slice, for conic gradients.
	Offset float64
}

type Pie struct {
	Slices []Slice
}

// NewPie builds one slice per item, colours cycling through Palette.
func NewPie(items []core.BudgetItem, f *format.Formatter) Pie {
	total := core.Summarize(items).TotalBudget
	out := Pie{Slices: make([]Slice, 0, len(items))}
	var offset float64
	for i, it := range items {
		share := core.Percentage(it.Amount, total)
		out.Slices = append(out.Slices, Slice{
			Category:   it.Category,
			Amount:     it.Amount,
			AmountText: f.Currency(it.Amount),
			Percent:    f.Percentage(share),
			Share:      share,
			Color:      Palette[i%len(Palette)],
			Offset:     offset,
		})
		offset += share
	}
	return out
}

type Card struct {
	Title    string
	Value    string
	Subtitle string
}

// NewCards renders the summary as total, largest category and year over
// year change.
func NewCards(s core.BudgetSummary, f *format.Formatter) []Card {
	largest := Card{Title: "Largest Category", Value: "-", Subtitle: "No data"}
	if s.LargestCategory != nil {
		largest.Value = s.LargestCategory.Category
		largest.Subtitle = f.Currency(s.LargestCategory.Amount)
	}
	return []Card{
		{Title: "Total Budget", Value: f.Currency(s.TotalBudget), Subtitle: f.Compact(s.TotalBudget)},
		largest,
		{Title: "Year over Year", Value: f.Percentage(s.YearOverYearChange), Subtitle: "vs previous year"},
	}
}

// View bundles everything the budget partial renders.
type View struct {
	Department string
	Cards      []Card
	Table      Table
	Bars       Bars
	Pie        Pie
}

func NewView(department string, items []core.BudgetItem, summary core.BudgetSummary, f *format.Formatter) View {
	return View{
		Department: department,
		Cards:      NewCards(summary, f),
		Table:      NewTable(items, f),
		Bars:       NewBars(items, f),
		Pie:        NewPie(items, f),
	}
}
