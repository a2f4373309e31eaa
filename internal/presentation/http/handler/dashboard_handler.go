package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/application/service"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the headline stats, today's per-collector totals and the top pending accounts
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	top, _ := strconv.Atoi(c.DefaultQuery("top", "5"))

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), top)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", dashboard)
}

// GetStats handles getting dashboard statistics only
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
