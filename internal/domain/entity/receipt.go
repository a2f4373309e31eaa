package entity

import "github.com/google/uuid"

// ReceiptHeader holds the business header printed at the top of a receipt.
type ReceiptHeader struct {
	BusinessName string `json:"business_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
}

// Receipt is a value object representing a payment receipt.
// It is NOT a database entity; it is composed from a transaction and its customer at read time.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	ReceiptNo     string        `json:"receipt_no"`
	TransactionID uuid.UUID     `json:"transaction_id"`
	Date          string        `json:"date"`
	Customer      string        `json:"customer"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	Collector     string        `json:"collector"`
	CollectorRole string        `json:"collector_role"`
	PaymentType   string        `json:"payment_type"`
	Currency      string        `json:"currency"`
	PreviousDue   float64       `json:"previous_due"`
	Paid          float64       `json:"paid"`
	BalanceAfter  float64       `json:"balance_after"`
	Notes         string        `json:"notes,omitempty"`
}
