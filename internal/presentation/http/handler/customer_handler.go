package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/application/service"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/sangkips/isp-billing-api/pkg/pagination"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	ledgerService   *service.LedgerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, ledgerService *service.LedgerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, ledgerService: ledgerService}
}

// List handles listing customers. Field agents only see accounts with money owing.
func (h *CustomerHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var q request.ListCustomersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	input := &service.ListCustomersInput{
		Pagination:  pagination.FromQuery(q.Page, q.PerPage),
		Search:      q.Search,
		WithDueOnly: q.WithDueOnly,
	}
	if q.Status != "" {
		status, err := enum.ParseCustomerStatus(q.Status)
		if err != nil {
			response.Error(c, apperror.NewFieldError("status", "must be one of ACTIVE, SUSPENDED, INACTIVE"))
			return
		}
		input.Status = &status
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:              req.Name,
		Phone:             req.Phone,
		Address:           req.Address,
		MonthlyPlanAmount: req.MonthlyPlanAmount,
		DueDay:            req.DueDay,
		Photo:             req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles fetching a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles an administrator edit of a customer, including a manual due correction
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &service.UpdateCustomerInput{
		Name:              req.Name,
		Phone:             req.Phone,
		Address:           req.Address,
		MonthlyPlanAmount: req.MonthlyPlanAmount,
		TotalDue:          req.TotalDue,
		DueDay:            req.DueDay,
		Photo:             req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// UpdateStatus handles changing the service state of a customer
func (h *CustomerHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateCustomerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, err := enum.ParseCustomerStatus(req.Status)
	if err != nil {
		response.Error(c, apperror.NewFieldError("status", "must be one of ACTIVE, SUSPENDED, INACTIVE"))
		return
	}

	customer, err := h.ledgerService.UpdateCustomerStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer status updated successfully", customer)
}
