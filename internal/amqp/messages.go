package amqp

import (
	"encoding/json"
	"time"

	"budgetdash/internal/budget"
)

// BudgetFetchedMessage is published after a department's budget was served.
// Consumers use it for audit and usage statistics; it carries no line items.
type BudgetFetchedMessage struct {
	Department  string    `json:"department"`
	Ward        string    `json:"ward,omitempty"`
	ItemCount   int       `json:"item_count"`
	TotalBudget float64   `json:"total_budget"`
	FetchedAt   time.Time `json:"fetched_at"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBudgetFetchedMessage wraps a query event, stamping the publish time.
func NewBudgetFetchedMessage(ev budget.Event) *BudgetFetchedMessage {
	return &BudgetFetchedMessage{
		Department:  ev.Department,
		Ward:        ev.Ward,
		ItemCount:   ev.ItemCount,
		TotalBudget: ev.TotalBudget,
		FetchedAt:   ev.FetchedAt,
		Timestamp:   time.Now(),
	}
}

func (m *BudgetFetchedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetFetchedMessageFromJSON(data []byte) (*BudgetFetchedMessage, error) {
	var msg BudgetFetchedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
