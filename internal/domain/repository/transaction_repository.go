package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
)

// PaymentFunc applies a payment to the locked customer row and returns the transaction to append.
// It runs inside the database transaction; returning an error rolls everything back.
type PaymentFunc func(customer *entity.Customer) (*entity.Transaction, error)

// CollectionFilterParams selects transactions across all customers
type CollectionFilterParams struct {
	From *time.Time // inclusive
	To   *time.Time // inclusive
	Role *enum.UserRole
}

// TransactionRepository defines the interface for the payment log
type TransactionRepository interface {
	// RecordPayment locks the customer, calls apply, then persists the new balance and the
	// transaction in one commit. Returns (nil, nil, nil) when the customer does not exist.
	RecordPayment(ctx context.Context, customerID uuid.UUID, apply PaymentFunc) (*entity.Transaction, *entity.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// ListByCustomer returns the ledger of one customer, most recent first
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Transaction, error)
	// ListCollections returns transactions with their customer preloaded, most recent first
	ListCollections(ctx context.Context, params *CollectionFilterParams) ([]entity.Transaction, error)
}
