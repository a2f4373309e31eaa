package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/pkg/money"
	"gorm.io/gorm"
)

// Customer represents a broadband subscriber
type Customer struct {
	ID                uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Name              string              `gorm:"size:255;not null" json:"name"`
	Phone             string              `gorm:"size:50;index" json:"phone"`
	Address           string              `gorm:"type:text" json:"address"`
	MonthlyPlanAmount int64               `gorm:"not null;default:0" json:"-"` // Stored in minor units, excluded from JSON
	TotalDue          int64               `gorm:"not null;default:0;index" json:"-"` // Stored in minor units, excluded from JSON
	Status            enum.CustomerStatus `gorm:"not null;default:0;index" json:"status"`
	DueDay            int                 `gorm:"not null;default:1" json:"due_day"`
	Photo             *string             `gorm:"type:text" json:"photo,omitempty"`
	LastBilledDate    time.Time           `json:"last_billed_date"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// MarshalJSON converts minor units to decimals for API responses
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		MonthlyPlanAmount float64 `json:"monthly_plan_amount"`
		TotalDue          float64 `json:"total_due"`
	}{
		Alias:             Alias(c),
		MonthlyPlanAmount: money.FromMinor(c.MonthlyPlanAmount),
		TotalDue:          money.FromMinor(c.TotalDue),
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// HasDue reports whether the customer owes money
func (c *Customer) HasDue() bool {
	return c.TotalDue > 0
}
