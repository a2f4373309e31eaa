package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/application/service"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipts and the thermal printer.
type PrinterHandler struct {
	receiptService *service.ReceiptService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(receiptService *service.ReceiptService) *PrinterHandler {
	return &PrinterHandler{receiptService: receiptService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.receiptService.GetPrinterStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// GetReceipt returns the receipt of a recorded payment.
func (h *PrinterHandler) GetReceipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// PrintReceipt prints the receipt of a recorded payment.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.PrintReceipt(c.Request.Context(), id)
	if receipt == nil {
		response.Error(c, err)
		return
	}
	if err != nil {
		// Return the receipt data anyway (useful when printer is offline)
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"printed": false,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Receipt sent to printer", gin.H{
		"receipt": receipt,
		"printed": true,
	})
}
