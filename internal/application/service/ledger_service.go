package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/domain/repository"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/lock"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/sangkips/isp-billing-api/pkg/money"
	"go.uber.org/zap"
)

const dayLayout = "2006-01-02"

// LedgerService owns every write to a customer's balance and payment history
type LedgerService struct {
	customerRepo    repository.CustomerRepository
	transactionRepo repository.TransactionRepository
	locker          lock.Locker
	clock           Clock
	loc             *time.Location
	log             *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	customerRepo repository.CustomerRepository,
	transactionRepo repository.TransactionRepository,
	locker lock.Locker,
	clock Clock,
	loc *time.Location,
	log *zap.Logger,
) *LedgerService {
	return &LedgerService{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		locker:          locker,
		clock:           clock,
		loc:             loc,
		log:             log,
	}
}

// RecordPaymentInput represents a payment collected from a subscriber
type RecordPaymentInput struct {
	CustomerID uuid.UUID
	Amount     float64
	Actor      entity.Actor
	Notes      *string
}

// PaymentResult is the committed transaction and the balance it left behind
type PaymentResult struct {
	Transaction *entity.Transaction `json:"transaction"`
	Customer    *entity.Customer    `json:"customer"`
}

// RecordPayment decrements the customer's due and appends a transaction in one commit.
// Overpayment is accepted and leaves a negative due (credit).
func (s *LedgerService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error) {
	amount, err := money.ToMinor(input.Amount)
	if err != nil {
		return nil, apperror.NewFieldError("amount", "amount is out of range")
	}
	if amount <= 0 {
		return nil, apperror.NewFieldError("amount", "amount must be greater than zero")
	}

	notes := normalizeNotes(input.Notes)
	actor := input.Actor

	unlock, err := s.locker.Lock(ctx, input.CustomerID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	txn, customer, err := s.transactionRepo.RecordPayment(ctx, input.CustomerID, func(c *entity.Customer) (*entity.Transaction, error) {
		dueBefore := c.TotalDue
		if !money.InRange(dueBefore - amount) {
			return nil, apperror.NewFieldError("amount", "resulting balance is out of range")
		}
		c.TotalDue = dueBefore - amount
		return &entity.Transaction{
			CustomerID:        c.ID,
			CollectorID:       actor.ID,
			CollectorName:     actor.Name,
			CollectorRole:     actor.Role,
			AmountPaid:        amount,
			PaymentType:       enum.ClassifyPayment(amount, dueBefore),
			Date:              s.clock().UTC(),
			RemainingDueAfter: c.TotalDue,
			Notes:             notes,
		}, nil
	})
	if apperror.IsAppError(err) {
		return nil, err
	}
	if err != nil {
		s.log.Error("record payment failed",
			zap.String("customer_id", input.CustomerID.String()),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	s.log.Info("payment recorded",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("collector", actor.Name),
		zap.Int64("amount", amount),
		zap.Int64("remaining_due", txn.RemainingDueAfter),
		zap.Stringer("payment_type", txn.PaymentType),
	)

	return &PaymentResult{Transaction: txn, Customer: customer}, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// LedgerFilter narrows a customer's ledger. Zero values match everything.
type LedgerFilter struct {
	Search      string // case-insensitive substring of notes, collector name or amount
	From        string // inclusive YYYY-MM-DD
	To          string // inclusive YYYY-MM-DD
	PaymentType *enum.PaymentType
}

// Validate rejects malformed date bounds
func (f *LedgerFilter) Validate() error {
	var fieldErrors []apperror.FieldError
	if f.From != "" {
		if _, err := time.Parse(dayLayout, f.From); err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "from", Message: "expected YYYY-MM-DD"})
		}
	}
	if f.To != "" {
		if _, err := time.Parse(dayLayout, f.To); err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "to", Message: "expected YYYY-MM-DD"})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// Matches applies the filter to one transaction. Dates compare as YYYY-MM-DD strings in loc.
func (f *LedgerFilter) Matches(t *entity.Transaction, loc *time.Location) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.NotesText()), needle) &&
			!strings.Contains(strings.ToLower(t.CollectorName), needle) &&
			!strings.Contains(money.String(t.AmountPaid), needle) {
			return false
		}
	}

	day := t.Date.In(loc).Format(dayLayout)
	if f.From != "" && day < f.From {
		return false
	}
	if f.To != "" && day > f.To {
		return false
	}

	if f.PaymentType != nil && t.PaymentType != *f.PaymentType {
		return false
	}
	return true
}

// GetLedger returns the customer's transactions, most recent first, narrowed by filter.
// A filter that matches nothing yields an empty slice.
func (s *LedgerService) GetLedger(ctx context.Context, customerID uuid.UUID, filter *LedgerFilter) ([]entity.Transaction, error) {
	if filter == nil {
		filter = &LedgerFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	txns, err := s.transactionRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make([]entity.Transaction, 0, len(txns))
	for i := range txns {
		if filter.Matches(&txns[i], s.loc) {
			out = append(out, txns[i])
		}
	}
	return out, nil
}

// UpdateCustomerStatus sets the service status. Any transition is allowed and the
// balance is left alone.
func (s *LedgerService) UpdateCustomerStatus(ctx context.Context, customerID uuid.UUID, status enum.CustomerStatus) (*entity.Customer, error) {
	if !status.Valid() {
		return nil, apperror.NewFieldError("status", "must be one of ACTIVE, SUSPENDED, INACTIVE")
	}

	unlock, err := s.locker.Lock(ctx, customerID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	customer, err := s.customerRepo.UpdateStatus(ctx, customerID, status)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	s.log.Info("customer status updated",
		zap.String("customer_id", customerID.String()),
		zap.Stringer("status", status),
	)
	return customer, nil
}
