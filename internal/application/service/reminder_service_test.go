package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	infraRepo "github.com/sangkips/isp-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) reminders() *ReminderService {
	return NewReminderService(
		infraRepo.NewCustomerRepository(f.db),
		infraRepo.NewTransactionRepository(f.db),
		"Speed Net",
		"₹",
		time.UTC,
	)
}

func TestShareLink(t *testing.T) {
	link := shareLink("+91 91234-56789", "Hi there & 1+1")
	assert.Equal(t, "https://wa.me/919123456789?text=Hi%20there%20%26%201%2B1", link)
}

func TestDueReminder(t *testing.T) {
	f := newFixture(t)
	c := f.customerWithDue(t, "John Doe", 1200)

	msg, err := f.reminders().DueReminder(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "9123456789", msg.Phone)
	assert.Contains(t, msg.Message, "Dear John Doe,")
	assert.Contains(t, msg.Message, "*₹1,200.00*")
	assert.True(t, strings.HasPrefix(msg.Link, "https://wa.me/9123456789?text="))
	assert.NotContains(t, msg.Link, "+")
}

func TestDueReminder_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.reminders().DueReminder(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))

	c := f.customerWithDue(t, "No Phone", 100)
	empty := ""
	_, err = f.customers.UpdateCustomer(context.Background(), c.ID, &UpdateCustomerInput{Phone: &empty})
	require.NoError(t, err)

	_, err = f.reminders().DueReminder(context.Background(), c.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestReceiptShare(t *testing.T) {
	f := newFixture(t)
	c := f.customerWithDue(t, "John Doe", 500)
	txn := f.pay(t, c, 200, agentActor, "", time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC))

	msg, err := f.reminders().ReceiptShare(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "Sub: John Doe")
	assert.Contains(t, msg.Message, "Date: 03/02/2024")
	assert.Contains(t, msg.Message, "Paid: ₹200.00")
	assert.Contains(t, msg.Message, "Bal: ₹300.00")
	assert.Contains(t, msg.Message, "Coll by: Subhajit")

	_, err = f.reminders().ReceiptShare(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}
