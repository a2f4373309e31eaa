package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/domain/repository"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/lock"
	"github.com/sangkips/isp-billing-api/internal/logger"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/sangkips/isp-billing-api/pkg/money"
	"github.com/sangkips/isp-billing-api/pkg/pagination"
	"go.uber.org/zap"
)

// CustomerService handles subscriber records
type CustomerService struct {
	customerRepo repository.CustomerRepository
	locker       lock.Locker
	clock        Clock
	log          *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, locker lock.Locker, clock Clock, log *zap.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, locker: locker, clock: clock, log: log}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name              string
	Phone             string
	Address           string
	MonthlyPlanAmount float64
	DueDay            int
	Photo             *string
}

// CreateCustomer opens an account: ACTIVE, owing one month of the plan
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	plan, err := money.ToMinor(input.MonthlyPlanAmount)
	switch {
	case err != nil:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "monthly_plan_amount", Message: "amount is out of range"})
	case plan < 0:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "monthly_plan_amount", Message: "must not be negative"})
	}
	if input.DueDay < 1 || input.DueDay > 31 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "due_day", Message: "must be between 1 and 31"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	customer := &entity.Customer{
		Name:              strings.TrimSpace(input.Name),
		Phone:             strings.TrimSpace(input.Phone),
		Address:           strings.TrimSpace(input.Address),
		MonthlyPlanAmount: plan,
		TotalDue:          plan,
		Status:            enum.CustomerStatusActive,
		DueDay:            input.DueDay,
		Photo:             input.Photo,
		LastBilledDate:    s.clock().UTC(),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("phone", logger.MaskPhone(customer.Phone)),
		zap.Int64("total_due", customer.TotalDue),
	)
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomersInput represents list filters
type ListCustomersInput struct {
	Pagination  *pagination.PaginationParams
	Search      string
	Status      *enum.CustomerStatus
	WithDueOnly bool
}

// ListCustomers lists customers. Field agents only ever see accounts with money owing.
func (s *CustomerService) ListCustomers(ctx context.Context, actor entity.Actor, input *ListCustomersInput) (*pagination.PaginatedResult[entity.Customer], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	customers, total, err := s.customerRepo.List(ctx, &repository.CustomerFilterParams{
		Pagination:  input.Pagination,
		Search:      strings.TrimSpace(input.Search),
		Status:      input.Status,
		WithDueOnly: input.WithDueOnly || !actor.IsAdmin(),
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents a partial customer edit. Nil fields are left unchanged.
type UpdateCustomerInput struct {
	Name              *string
	Phone             *string
	Address           *string
	MonthlyPlanAmount *float64
	TotalDue          *float64
	DueDay            *int
	Photo             *string
}

// UpdateCustomer applies an administrator edit. TotalDue here is the explicit correction path;
// the ledger is not touched.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	// the full-row save must not interleave with a payment on the same account
	unlock, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}
	if input.MonthlyPlanAmount != nil {
		plan, err := money.ToMinor(*input.MonthlyPlanAmount)
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "monthly_plan_amount", Message: "amount is out of range"})
		case plan < 0:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "monthly_plan_amount", Message: "must not be negative"})
		}
		customer.MonthlyPlanAmount = plan
	}
	if input.DueDay != nil {
		if *input.DueDay < 1 || *input.DueDay > 31 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "due_day", Message: "must be between 1 and 31"})
		}
		customer.DueDay = *input.DueDay
	}
	if input.Photo != nil {
		customer.Photo = input.Photo
	}
	previousDue := customer.TotalDue
	if input.TotalDue != nil {
		due, err := money.ToMinor(*input.TotalDue)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "total_due", Message: "amount is out of range"})
		}
		customer.TotalDue = due
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	if customer.TotalDue != previousDue {
		s.log.Info("customer due adjusted",
			zap.String("customer_id", customer.ID.String()),
			zap.Int64("previous_due", previousDue),
			zap.Int64("total_due", customer.TotalDue),
		)
	}
	return customer, nil
}
