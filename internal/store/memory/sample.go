package memory

import "budgetdash/internal/core"

// SampleRows returns a small demo dataset across three departments.
func SampleRows() []core.RawRow {
	return []core.RawRow{
		{ID: "6f1c2d8e-0001-4c1a-9b1e-000000000001", Account: "1001", GLCode: "GL-ROAD-01", AccountBudgetA: "Roads", UsedAmt: "4500000", RemainingAmt: "500000"},
		{ID: "6f1c2d8e-0001-4c1a-9b1e-000000000002", Account: "1002", GLCode: "GL-ROAD-02", AccountBudgetA: "Roads", UsedAmt: "1250000", RemainingAmt: "250000"},
		{ID: "6f1c2d8e-0001-4c1a-9b1e-000000000003", Account: "1003", GLCode: "GL-ROAD-03", AccountBudgetA: "Roads", UsedAmt: "0", RemainingAmt: "100000"},
		{ID: "6f1c2d8e-0001-4c1a-9b1e-000000000004", Account: "2001", GLCode: "GL-HLTH-01", AccountBudgetA: "Health", UsedAmt: "32000000", RemainingAmt: "8000000"},
		{ID: "6f1c2d8e-0001-4c1a-9b1e-000000000005", Account: "2002", GLCode: "GL-HLTH-02", AccountBudgetA: "Health", UsedAmt: "875000", RemainingAmt: "125000"},
		{ID: "6f1c2d8e-0001-4c1a-9b1e-000000000006", Account: "3001", GLCode: "GL-WATR-01", AccountBudgetA: "Water Supply", UsedAmt: "2100000", RemainingAmt: "900000"},
		{ID: "6f1c2d8e-0001-4c1a-9b1e-000000000007", Account: "3002", GLCode: "GL-WATR-02", AccountBudgetA: "Water Supply", UsedAmt: "64000", RemainingAmt: "36000"},
	}
}
