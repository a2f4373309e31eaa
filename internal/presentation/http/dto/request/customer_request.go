package request

// CreateCustomerRequest represents a request to open a subscriber account
type CreateCustomerRequest struct {
	Name              string  `json:"name" binding:"required,max=255"`
	Phone             string  `json:"phone" binding:"max=32"`
	Address           string  `json:"address" binding:"max=500"`
	MonthlyPlanAmount float64 `json:"monthly_plan_amount"`
	DueDay            int     `json:"due_day" binding:"required"`
	Photo             *string `json:"photo"`
}

// UpdateCustomerRequest carries a partial edit; omitted fields are left unchanged
type UpdateCustomerRequest struct {
	Name              *string  `json:"name" binding:"omitempty,max=255"`
	Phone             *string  `json:"phone" binding:"omitempty,max=32"`
	Address           *string  `json:"address" binding:"omitempty,max=500"`
	MonthlyPlanAmount *float64 `json:"monthly_plan_amount"`
	TotalDue          *float64 `json:"total_due"`
	DueDay            *int     `json:"due_day"`
	Photo             *string  `json:"photo"`
}

// UpdateCustomerStatusRequest changes the service state of a subscriber
type UpdateCustomerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListCustomersQuery holds the customer list query string
type ListCustomersQuery struct {
	Page        string `form:"page"`
	PerPage     string `form:"per_page"`
	Search      string `form:"search"`
	Status      string `form:"status"`
	WithDueOnly bool   `form:"with_due_only"`
}
