package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/application/service"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/response"
)

// ReminderHandler serves pre-filled WhatsApp messages
type ReminderHandler struct {
	reminderService *service.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// DueReminder returns the payment reminder for a customer
func (h *ReminderHandler) DueReminder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	msg, err := h.reminderService.DueReminder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reminder generated", msg)
}

// ReceiptShare returns the payment confirmation message for a transaction
func (h *ReminderHandler) ReceiptShare(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	msg, err := h.reminderService.ReceiptShare(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt message generated", msg)
}
