package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/repository"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/sangkips/isp-billing-api/pkg/money"
	"github.com/sangkips/isp-billing-api/pkg/printer"
	"github.com/sangkips/isp-billing-api/pkg/utils"
	"go.uber.org/zap"
)

// ReceiptService composes payment receipts and sends them to the thermal printer.
type ReceiptService struct {
	printer         printer.Printer
	transactionRepo repository.TransactionRepository
	header          entity.ReceiptHeader
	currency        string
	loc             *time.Location
	log             *zap.Logger
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(
	p printer.Printer,
	transactionRepo repository.TransactionRepository,
	header entity.ReceiptHeader,
	currency string,
	loc *time.Location,
	log *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		printer:         p,
		transactionRepo: transactionRepo,
		header:          header,
		currency:        currency,
		loc:             loc,
		log:             log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetPrinterStatus returns printer connection status.
func (s *ReceiptService) GetPrinterStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Kind(),
	}
}

// GetReceipt builds the receipt for a recorded payment.
func (s *ReceiptService) GetReceipt(ctx context.Context, transactionID uuid.UUID) (*entity.Receipt, error) {
	txn, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	receipt := &entity.Receipt{
		Header:        s.header,
		ReceiptNo:     utils.ReceiptNumber(txn.ID),
		TransactionID: txn.ID,
		Date:          txn.Date.In(s.loc).Format("2006-01-02 15:04"),
		Collector:     txn.CollectorName,
		CollectorRole: txn.CollectorRole.String(),
		PaymentType:   txn.PaymentType.String(),
		Currency:      s.currency,
		PreviousDue:   money.FromMinor(txn.DueBefore()),
		Paid:          money.FromMinor(txn.AmountPaid),
		BalanceAfter:  money.FromMinor(txn.RemainingDueAfter),
		Notes:         txn.NotesText(),
	}
	if txn.Customer != nil {
		receipt.Customer = txn.Customer.Name
		receipt.CustomerPhone = txn.Customer.Phone
	}

	return receipt, nil
}

// PrintReceipt prints the receipt of a recorded payment.
// The receipt is returned even when printing fails so the caller can still show it.
func (s *ReceiptService) PrintReceipt(ctx context.Context, transactionID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt)); err != nil {
		s.log.Warn("printer error", zap.String("transaction_id", transactionID.String()), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars
	amount := func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	}

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.BusinessName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.Text("PAYMENT RECEIPT").
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.Date)
	if r.Customer != "" {
		doc.KeyValue("Subscriber:", r.Customer)
	}
	if r.CustomerPhone != "" {
		doc.KeyValue("Phone:", r.CustomerPhone)
	}
	doc.KeyValue("Collected by:", r.Collector).
		KeyValue("Payment:", r.PaymentType)

	doc.Separator('-')

	doc.KeyValue("Previous due:", amount(r.PreviousDue)).
		SetBold(true).
		KeyValue("PAID:", amount(r.Paid)).
		SetBold(false)

	if r.BalanceAfter < 0 {
		doc.KeyValue("Advance:", amount(-r.BalanceAfter))
	} else {
		doc.KeyValue("Balance:", amount(r.BalanceAfter))
	}

	if r.Notes != "" {
		doc.Separator('-').
			Wrap(r.Notes)
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
