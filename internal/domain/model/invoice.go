package model

// Invoice is a registrar invoice. Read-only from this tool's perspective.
type Invoice struct {
	ID         int     `json:"id"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
	IssuedDate string  `json:"issued_date"`
	DueDate    string  `json:"due_date,omitempty"`
	PaidDate   string  `json:"paid_date,omitempty"`
	URL        string  `json:"url,omitempty"`
}

// InvoiceStatuses are the filter values the remote API accepts.
var InvoiceStatuses = []string{"unpaid", "paid", "settled"}
