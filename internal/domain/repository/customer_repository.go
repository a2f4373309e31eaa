package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/pkg/pagination"
)

// CustomerFilterParams contains filtering parameters for customer queries
type CustomerFilterParams struct {
	Pagination  *pagination.PaginationParams
	Search      string // matches name or phone
	Status      *enum.CustomerStatus
	WithDueOnly bool // only customers with total_due > 0
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// UpdateStatus sets the status column only. Returns (nil, nil) when the customer does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.CustomerStatus) (*entity.Customer, error)
	List(ctx context.Context, params *CustomerFilterParams) ([]entity.Customer, int64, error)
	// ListWithDue returns customers owing money, highest due first. limit <= 0 returns all of them.
	ListWithDue(ctx context.Context, limit int) ([]entity.Customer, error)
}
