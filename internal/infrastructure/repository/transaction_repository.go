package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/isp-billing-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errCustomerMissing = errors.New("customer missing")

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) RecordPayment(ctx context.Context, customerID uuid.UUID, apply domainRepo.PaymentFunc) (*entity.Transaction, *entity.Customer, error) {
	var (
		customer entity.Customer
		txn      *entity.Transaction
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SELECT ... FOR UPDATE; sqlite ignores the locking clause
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&customer, "id = ?", customerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCustomerMissing
		}
		if err != nil {
			return fmt.Errorf("lock customer: %w", err)
		}

		txn, err = apply(&customer)
		if err != nil {
			return err
		}
		txn.CustomerID = customer.ID

		var last int64
		if err := tx.Model(&entity.Transaction{}).
			Where("customer_id = ?", customer.ID).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("read ledger sequence: %w", err)
		}
		txn.Sequence = last + 1

		if err := tx.Model(&customer).Update("total_due", customer.TotalDue).Error; err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(txn).Error; err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
		return nil
	})

	if errors.Is(err, errCustomerMissing) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return txn, &customer, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Transaction, error) {
	var txns []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("sequence DESC").
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) ListCollections(ctx context.Context, params *domainRepo.CollectionFilterParams) ([]entity.Transaction, error) {
	var txns []entity.Transaction

	query := r.db.WithContext(ctx).Preload("Customer")
	if params != nil {
		if params.From != nil {
			query = query.Where("date >= ?", params.From.UTC())
		}
		if params.To != nil {
			query = query.Where("date <= ?", params.To.UTC())
		}
		if params.Role != nil {
			query = query.Where("collector_role = ?", *params.Role)
		}
	}

	err := query.Order("date DESC, sequence DESC").Find(&txns).Error
	return txns, err
}
