package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/application/service"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
)

// LedgerHandler handles payments and the per-customer transaction history
type LedgerHandler struct {
	ledgerService *service.LedgerService
	reportService *service.ReportService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService, reportService *service.ReportService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, reportService: reportService}
}

// RecordPayment records a payment collected by the current operator
func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.ledgerService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		CustomerID: id,
		Amount:     req.Amount,
		Actor:      actor,
		Notes:      req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Payment recorded successfully", result)
}

func ledgerFilter(c *gin.Context) (*service.LedgerFilter, bool) {
	var q request.LedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}

	filter := &service.LedgerFilter{Search: q.Search, From: q.From, To: q.To}
	if q.PaymentType != "" && q.PaymentType != "ALL" && q.PaymentType != "all" {
		pt, err := enum.ParsePaymentType(q.PaymentType)
		if err != nil {
			response.Error(c, apperror.NewFieldError("payment_type", "must be FULL or PART"))
			return nil, false
		}
		filter.PaymentType = &pt
	}
	return filter, true
}

// GetLedger returns a customer's transactions, newest first
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}

	txns, err := h.ledgerService.GetLedger(c.Request.Context(), id, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger retrieved successfully", txns)
}

// ExportLedger downloads the filtered ledger as a workbook
func (h *LedgerHandler) ExportLedger(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}

	file, err := h.reportService.ExportLedger(c.Request.Context(), id, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.FileName, service.XLSXContentType, file.Content)
}
