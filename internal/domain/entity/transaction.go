package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/pkg/money"
	"gorm.io/gorm"
)

// Transaction is an immutable payment record in a customer's ledger.
// The collector fields are a copy of the actor at recording time, not a reference.
type Transaction struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:ux_transactions_customer_seq,priority:1" json:"customer_id"`
	Sequence          int64            `gorm:"not null;uniqueIndex:ux_transactions_customer_seq,priority:2" json:"sequence"`
	CollectorID       string           `gorm:"size:64;not null" json:"collector_id"`
	CollectorName     string           `gorm:"size:255;not null;index" json:"collector_name"`
	CollectorRole     enum.UserRole    `gorm:"not null" json:"collector_role"`
	AmountPaid        int64            `gorm:"not null" json:"-"` // Stored in minor units, excluded from JSON
	PaymentType       enum.PaymentType `gorm:"not null" json:"payment_type"`
	Date              time.Time        `gorm:"not null;index" json:"date"`
	RemainingDueAfter int64            `gorm:"not null" json:"-"` // Stored in minor units, excluded from JSON
	Notes             *string          `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// MarshalJSON converts minor units to decimals for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		AmountPaid        float64 `json:"amount_paid"`
		RemainingDueAfter float64 `json:"remaining_due_after"`
	}{
		Alias:             Alias(t),
		AmountPaid:        money.FromMinor(t.AmountPaid),
		RemainingDueAfter: money.FromMinor(t.RemainingDueAfter),
	})
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// DueBefore is the balance the payment was applied to
func (t *Transaction) DueBefore() int64 {
	return t.RemainingDueAfter + t.AmountPaid
}

// NotesText returns the notes or an empty string
func (t *Transaction) NotesText() string {
	if t.Notes == nil {
		return ""
	}
	return *t.Notes
}
