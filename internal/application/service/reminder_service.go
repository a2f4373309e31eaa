package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/repository"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/sangkips/isp-billing-api/pkg/money"
)

const whatsAppBaseURL = "https://wa.me/"

// ReminderService composes pre-filled WhatsApp messages for subscribers
type ReminderService struct {
	customerRepo    repository.CustomerRepository
	transactionRepo repository.TransactionRepository
	businessName    string
	currency        string
	loc             *time.Location
}

// NewReminderService creates a new reminder service
func NewReminderService(
	customerRepo repository.CustomerRepository,
	transactionRepo repository.TransactionRepository,
	businessName string,
	currency string,
	loc *time.Location,
) *ReminderService {
	return &ReminderService{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		businessName:    businessName,
		currency:        currency,
		loc:             loc,
	}
}

// ShareMessage is a message and the link that opens it in WhatsApp
type ShareMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Link    string `json:"link"`
}

func shareLink(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	// QueryEscape turns spaces into '+'; a literal '+' is already %2B so the swap is safe
	return whatsAppBaseURL + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// DueReminder builds a payment reminder stating the customer's outstanding due
func (s *ReminderService) DueReminder(ctx context.Context, customerID uuid.UUID) (*ShareMessage, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if customer.Phone == "" {
		return nil, apperror.NewBadRequestError("Customer has no phone number")
	}

	text := fmt.Sprintf(
		"*%s Payment Reminder*\n\nDear %s,\nThis is a friendly reminder that your monthly broadband dues of *%s* are pending. Please settle your bill to avoid service interruption.\n\nThank you,\nTeam %s",
		s.businessName,
		customer.Name,
		money.Format(s.currency, customer.TotalDue),
		s.businessName,
	)

	return &ShareMessage{Phone: customer.Phone, Message: text, Link: shareLink(customer.Phone, text)}, nil
}

// ReceiptShare builds a payment confirmation for a recorded transaction
func (s *ReminderService) ReceiptShare(ctx context.Context, transactionID uuid.UUID) (*ShareMessage, error) {
	txn, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil || txn.Customer == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	customer := txn.Customer
	if customer.Phone == "" {
		return nil, apperror.NewBadRequestError("Customer has no phone number")
	}

	text := fmt.Sprintf(
		"*%s Receipt*\n--------------------------\nSub: %s\nDate: %s\nPlan: %s\nPaid: %s\nBal: %s\nColl by: %s\n--------------------------\nThank you!",
		s.businessName,
		customer.Name,
		txn.Date.In(s.loc).Format("02/01/2006"),
		money.Format(s.currency, customer.MonthlyPlanAmount),
		money.Format(s.currency, txn.AmountPaid),
		money.Format(s.currency, txn.RemainingDueAfter),
		txn.CollectorName,
	)

	return &ShareMessage{Phone: customer.Phone, Message: text, Link: shareLink(customer.Phone, text)}, nil
}
