package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/application/service"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
)

// ReportHandler handles collection and dues reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportQuery(c *gin.Context) (service.TimeRange, *enum.UserRole, bool) {
	var q request.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return "", nil, false
	}

	rng, err := service.ParseTimeRange(q.Range)
	if err != nil {
		response.Error(c, err)
		return "", nil, false
	}

	if q.Role == "" || q.Role == "ALL" || q.Role == "all" {
		return rng, nil, true
	}
	role, err := enum.ParseUserRole(q.Role)
	if err != nil {
		response.Error(c, apperror.NewFieldError("role", "must be ALL, ADMIN or AGENT"))
		return "", nil, false
	}
	return rng, &role, true
}

// Collections returns the collections report
func (h *ReportHandler) Collections(c *gin.Context) {
	rng, role, ok := reportQuery(c)
	if !ok {
		return
	}

	report, err := h.reportService.Collections(c.Request.Context(), rng, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Collections report retrieved successfully", report)
}

// ExportCollections downloads the collections report as a workbook
func (h *ReportHandler) ExportCollections(c *gin.Context) {
	rng, role, ok := reportQuery(c)
	if !ok {
		return
	}

	file, err := h.reportService.ExportCollections(c.Request.Context(), rng, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.FileName, service.XLSXContentType, file.Content)
}

// Dues returns every account with money owing
func (h *ReportHandler) Dues(c *gin.Context) {
	report, err := h.reportService.OutstandingDues(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dues report retrieved successfully", report)
}

// ExportDues downloads the dues report as a workbook
func (h *ReportHandler) ExportDues(c *gin.Context) {
	file, err := h.reportService.ExportOutstandingDues(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.FileName, service.XLSXContentType, file.Content)
}
