package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	infraRepo "github.com/sangkips/isp-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePrinter struct {
	printed [][]byte
	err     error
}

func (p *fakePrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.printed = append(p.printed, data)
	return nil
}

func (p *fakePrinter) IsConnected(context.Context) bool { return p.err == nil }

func (p *fakePrinter) Kind() string { return "network" }

var testHeader = entity.ReceiptHeader{BusinessName: "Speed Net", Address: "MG Road", Phone: "080-1234"}

func (f *fixture) receipts(p *fakePrinter) *ReceiptService {
	return NewReceiptService(p, infraRepo.NewTransactionRepository(f.db), testHeader, "₹", time.UTC, zap.NewNop())
}

func TestGetReceipt(t *testing.T) {
	f := newFixture(t)
	c := f.customerWithDue(t, "John Doe", 1000)
	txn := f.pay(t, c, 300, agentActor, "paid at counter", time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC))

	receipt, err := f.receipts(&fakePrinter{}).GetReceipt(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", receipt.Customer)
	assert.Equal(t, "9123456789", receipt.CustomerPhone)
	assert.Equal(t, 1000.0, receipt.PreviousDue)
	assert.Equal(t, 300.0, receipt.Paid)
	assert.Equal(t, 700.0, receipt.BalanceAfter)
	assert.Equal(t, "PART", receipt.PaymentType)
	assert.Equal(t, "Subhajit", receipt.Collector)
	assert.Equal(t, "2024-02-15 09:30", receipt.Date)
	assert.Regexp(t, `^RCPT-[0-9A-F]{8}$`, receipt.ReceiptNo)
	assert.Equal(t, testHeader, receipt.Header)

	_, err = f.receipts(&fakePrinter{}).GetReceipt(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestPrintReceipt(t *testing.T) {
	f := newFixture(t)
	c := f.customerWithDue(t, "John Doe", 500)
	txn := f.pay(t, c, 800, adminActor, "", f.clock.Now())

	p := &fakePrinter{}
	receipt, err := f.receipts(p).PrintReceipt(context.Background(), txn.ID)
	require.NoError(t, err)
	require.Len(t, p.printed, 1)
	assert.Equal(t, -300.0, receipt.BalanceAfter)

	out := string(p.printed[0])
	assert.Contains(t, out, "Speed Net")
	assert.Contains(t, out, "PAYMENT RECEIPT")
	assert.Contains(t, out, "800.00")
	assert.Contains(t, out, "Advance:")
	assert.NotContains(t, out, "Balance:")
}

func TestPrintReceipt_PrinterFailureStillReturnsReceipt(t *testing.T) {
	f := newFixture(t)
	c := f.customerWithDue(t, "John Doe", 500)
	txn := f.pay(t, c, 200, adminActor, "", f.clock.Now())

	receipt, err := f.receipts(&fakePrinter{err: errors.New("paper out")}).PrintReceipt(context.Background(), txn.ID)
	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, 300.0, receipt.BalanceAfter)
}

func TestGetPrinterStatus(t *testing.T) {
	f := newFixture(t)
	status := f.receipts(&fakePrinter{}).GetPrinterStatus(context.Background())
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, "network", status.Type)
}

func TestFormatReceipt_WrapsNotes(t *testing.T) {
	out := string(FormatReceipt(&entity.Receipt{
		Header:       testHeader,
		ReceiptNo:    "RCPT-ABCDEF12",
		Paid:         250,
		BalanceAfter: 250,
		Notes:        "collected from the neighbour because the subscriber was travelling",
	}))
	assert.Contains(t, out, "Balance:")
	assert.Contains(t, out, "250.00")
	assert.Contains(t, out, "travelling")
}
