package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readSheet(t *testing.T, content []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestParseTimeRange(t *testing.T) {
	rng, err := ParseTimeRange("")
	require.NoError(t, err)
	assert.Equal(t, TimeRangeMonth, rng)

	rng, err = ParseTimeRange("Week")
	require.NoError(t, err)
	assert.Equal(t, TimeRangeWeek, rng)

	_, err = ParseTimeRange("fortnight")
	assert.Error(t, err)
}

func seedCollections(t *testing.T, f *fixture) {
	t.Helper()
	a := f.customerWithDue(t, "Abdur Rahman", 5000)
	b := f.customerWithDue(t, "John Doe", 5000)
	now := f.clock.Now()

	f.pay(t, a, 100, adminActor, "cash", now.Add(-time.Hour))
	f.pay(t, b, 250, agentActor, "", now.Add(-2*time.Hour))
	f.pay(t, a, 400, agentActor, "", now.AddDate(0, 0, -5))
	f.pay(t, b, 1000, adminActor, "", now.AddDate(0, -2, 0))
	f.clock.Set(now)
}

func TestCollections_RangesAndRole(t *testing.T) {
	f := newFixture(t)
	seedCollections(t, f)
	ctx := context.Background()

	today, err := f.reports.Collections(ctx, TimeRangeToday, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, today.Summary.Count)
	assert.Equal(t, 350.0, today.Summary.Total)
	assert.Equal(t, 175.0, today.Summary.Average)
	assert.Equal(t, "ALL", today.Role)

	week, err := f.reports.Collections(ctx, TimeRangeWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, week.Summary.Count)

	all, err := f.reports.Collections(ctx, TimeRangeAll, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, all.Summary.Count)
	assert.Equal(t, 1750.0, all.Summary.Total)

	agent := enum.UserRoleAgent
	byAgent, err := f.reports.Collections(ctx, TimeRangeAll, &agent)
	require.NoError(t, err)
	assert.Equal(t, 2, byAgent.Summary.Count)
	assert.Equal(t, "AGENT", byAgent.Role)
	for _, txn := range byAgent.Transactions {
		assert.Equal(t, enum.UserRoleAgent, txn.CollectorRole)
	}
}

func TestCollections_EmptyAverageIsZero(t *testing.T) {
	f := newFixture(t)
	report, err := f.reports.Collections(context.Background(), TimeRangeToday, nil)
	require.NoError(t, err)
	assert.Zero(t, report.Summary.Average)
	assert.NotNil(t, report.Transactions)
}

func TestOutstandingDues(t *testing.T) {
	f := newFixture(t)
	f.customerWithDue(t, "A", 500)
	f.customerWithDue(t, "B", 0)
	f.customerWithDue(t, "C", 1200)

	report, err := f.reports.OutstandingDues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1700.0, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Count)
	assert.Equal(t, 850.0, report.Summary.Average)
	require.Len(t, report.Customers, 2)
	assert.Equal(t, "C", report.Customers[0].Name)
}

func TestExportCollections(t *testing.T) {
	f := newFixture(t)
	seedCollections(t, f)

	file, err := f.reports.ExportCollections(context.Background(), TimeRangeToday, nil)
	require.NoError(t, err)
	assert.Equal(t, "collections_today_2024-02-15.xlsx", file.FileName)

	rows := readSheet(t, file.Content, "Collections")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Time", "Subscriber Name", "Amount Paid", "Balance After", "Collected By", "Role", "Notes"}, rows[0])
	assert.Equal(t, "2024-02-15", rows[1][0])
	assert.Equal(t, "11:00", rows[1][1])
	assert.Equal(t, "Abdur Rahman", rows[1][2])
	assert.Equal(t, "100", rows[1][3])
	assert.Equal(t, "Vinod", rows[1][5])
	assert.Equal(t, "ADMIN", rows[1][6])
	assert.Equal(t, "cash", rows[1][7])
}

func TestExportOutstandingDues(t *testing.T) {
	f := newFixture(t)
	f.customerWithDue(t, "A", 500)
	f.customerWithDue(t, "B", 0)

	file, err := f.reports.ExportOutstandingDues(context.Background())
	require.NoError(t, err)

	rows := readSheet(t, file.Content, "Dues")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Subscriber Name", "Phone", "Address", "Monthly Plan", "Total Due", "Due Day", "Status"}, rows[0])
	assert.Equal(t, []string{"A", "9123456789", "Indiranagar, Bangalore", "500", "500", "5", "ACTIVE"}, rows[1])
}

func TestExportLedger(t *testing.T) {
	f := newFixture(t)
	c := f.customerWithDue(t, "John Doe", 1000)
	f.pay(t, c, 300, adminActor, "", time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC))
	f.pay(t, c, 700, agentActor, "", time.Date(2024, 2, 12, 10, 0, 0, 0, time.UTC))

	file, err := f.reports.ExportLedger(context.Background(), c.ID, &LedgerFilter{})
	require.NoError(t, err)
	assert.Contains(t, file.FileName, "ledger_john_doe_")

	rows := readSheet(t, file.Content, "Ledger")
	require.Len(t, rows, 3)
	assert.Equal(t, "Payment Type", rows[0][8])
	assert.Equal(t, "FULL", rows[1][8])
	assert.Equal(t, "PART", rows[2][8])

	_, err = f.reports.ExportLedger(context.Background(), uuid.New(), nil)
	assert.True(t, apperror.IsNotFound(err))
}
