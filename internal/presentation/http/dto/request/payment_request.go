package request

// RecordPaymentRequest represents a payment collected from a subscriber.
// Amount is in major units; non-positive amounts are rejected by the ledger.
type RecordPaymentRequest struct {
	Amount float64 `json:"amount"`
	Notes  *string `json:"notes" binding:"omitempty,max=1000"`
}

// LedgerQuery holds the ledger filter query string
type LedgerQuery struct {
	Search      string `form:"search"`
	From        string `form:"from"`
	To          string `form:"to"`
	PaymentType string `form:"payment_type"`
}

// ReportQuery holds the report query string
type ReportQuery struct {
	Range string `form:"range"`
	Role  string `form:"role"`
}
