package core

import (
	"bytes"
	"encoding/json"
	"strings"
)

// UnknownCategory is assigned when a row carries neither an account budget
// label nor a GL code. Rows resolving to it never reach presentation.
const UnknownCategory = "Unknown Category"

type (
	// Amount is a numeric-like raw field as delivered by a backing store.
	// It keeps the textual form so coercion happens in one place.
	Amount string

	// RawRow mirrors one row of the municipal_budget table.
	RawRow struct {
		ID             string `json:"id"`
		Account        string `json:"account"`
		GLCode         string `json:"glcode"`
		AccountBudgetA string `json:"account_budget_a"`
		UsedAmt        Amount `json:"used_amt"`
		RemainingAmt   Amount `json:"remaining_amt"`
		BudgetA        Amount `json:"budget_a,omitempty"`
		CreatedAt      string `json:"created_at,omitempty"`
		FileID         string `json:"file_id,omitempty"`
		UserID         string `json:"user_id,omitempty"`
	}

	// BudgetItem is the canonical budget line surfaced to presentation.
	BudgetItem struct {
		ID       string  `json:"id"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	CategoryAmount struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	// BudgetSummary is derived on every fetch and never persisted.
	BudgetSummary struct {
		TotalBudget     float64         `json:"totalBudget"`
		LargestCategory *CategoryAmount `json:"largestCategory"`
		// YearOverYearChange stays zero until historical data exists.
		YearOverYearChange float64 `json:"yearOverYearChange"`
	}
)

// UnmarshalJSON accepts numbers, strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// Booleans, objects and the like coerce to zero later on.
		*a = ""
		return nil
	}
	*a = Amount(n.String())
	return nil
}

// MarshalJSON writes the amount back as a JSON number when it parses as one.
func (a Amount) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return []byte("null"), nil
	}
	if json.Valid([]byte(s)) {
		var n json.Number
		if err := json.Unmarshal([]byte(s), &n); err == nil {
			return []byte(n.String()), nil
		}
	}
	return json.Marshal(string(a))
}

// Float returns the coerced numeric value of the amount.
func (a Amount) Float() float64 {
	return CoerceAmount(a)
}
