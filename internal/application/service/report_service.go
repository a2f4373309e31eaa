package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/domain/repository"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/sangkips/isp-billing-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TimeRange selects the collections window of a report
type TimeRange string

const (
	TimeRangeToday TimeRange = "today"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeAll   TimeRange = "all"
)

// ParseTimeRange defaults to month, as the reports screen does
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return TimeRangeMonth, nil
	case TimeRangeToday:
		return TimeRangeToday, nil
	case TimeRangeWeek:
		return TimeRangeWeek, nil
	case TimeRangeMonth:
		return TimeRangeMonth, nil
	case TimeRangeAll:
		return TimeRangeAll, nil
	}
	return "", apperror.NewFieldError("range", "must be one of today, week, month, all")
}

// ReportService builds collection and receivable reports and their spreadsheet exports
type ReportService struct {
	transactionRepo repository.TransactionRepository
	customerRepo    repository.CustomerRepository
	ledger          *LedgerService
	clock           Clock
	loc             *time.Location
}

// NewReportService creates a new report service
func NewReportService(
	transactionRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	ledger *LedgerService,
	clock Clock,
	loc *time.Location,
) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		customerRepo:    customerRepo,
		ledger:          ledger,
		clock:           clock,
		loc:             loc,
	}
}

// ReportSummary holds the headline figures of a report
type ReportSummary struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

func summarize(amounts []int64) ReportSummary {
	var total int64
	for _, a := range amounts {
		total += a
	}
	summary := ReportSummary{Total: money.FromMinor(total), Count: len(amounts)}
	if len(amounts) > 0 {
		avg := decimal.New(total, -2).Div(decimal.NewFromInt(int64(len(amounts)))).Round(2)
		summary.Average, _ = avg.Float64()
	}
	return summary
}

// CollectionsReport lists payments collected in a window
type CollectionsReport struct {
	Range        TimeRange            `json:"range"`
	Role         string               `json:"role"`
	Summary      ReportSummary        `json:"summary"`
	Transactions []entity.Transaction `json:"transactions"`
}

// DuesReport lists every account with money owing, highest first
type DuesReport struct {
	Summary   ReportSummary     `json:"summary"`
	Customers []entity.Customer `json:"customers"`
}

// ExportFile is a generated workbook ready to be streamed
type ExportFile struct {
	FileName string
	Content  []byte
}

func (s *ReportService) rangeStart(rng TimeRange, now time.Time) *time.Time {
	var from time.Time
	switch rng {
	case TimeRangeToday:
		from = todayPeriod(now, s.loc).From
	case TimeRangeWeek:
		from = weekPeriod(now).From
	case TimeRangeMonth:
		from = monthPeriod(now, s.loc).From
	default:
		return nil
	}
	return &from
}

// Collections returns the transactions in range, optionally for one collector role
func (s *ReportService) Collections(ctx context.Context, rng TimeRange, role *enum.UserRole) (*CollectionsReport, error) {
	now := s.clock()
	txns, err := s.transactionRepo.ListCollections(ctx, &repository.CollectionFilterParams{
		From: s.rangeStart(rng, now),
		To:   &now,
		Role: role,
	})
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []entity.Transaction{}
	}

	amounts := make([]int64, len(txns))
	for i := range txns {
		amounts[i] = txns[i].AmountPaid
	}

	roleName := "ALL"
	if role != nil {
		roleName = role.String()
	}

	return &CollectionsReport{
		Range:        rng,
		Role:         roleName,
		Summary:      summarize(amounts),
		Transactions: txns,
	}, nil
}

// OutstandingDues returns customers with a positive due
func (s *ReportService) OutstandingDues(ctx context.Context) (*DuesReport, error) {
	customers, err := s.customerRepo.ListWithDue(ctx, 0)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []entity.Customer{}
	}

	amounts := make([]int64, len(customers))
	for i := range customers {
		amounts[i] = customers[i].TotalDue
	}

	return &DuesReport{Summary: summarize(amounts), Customers: customers}, nil
}

var collectionHeaders = []string{"Date", "Time", "Subscriber Name", "Amount Paid", "Balance After", "Collected By", "Role", "Notes"}

func (s *ReportService) collectionRow(t *entity.Transaction, subscriber string) []interface{} {
	at := t.Date.In(s.loc)
	return []interface{}{
		at.Format(dayLayout),
		at.Format("15:04"),
		subscriber,
		money.FromMinor(t.AmountPaid),
		money.FromMinor(t.RemainingDueAfter),
		t.CollectorName,
		t.CollectorRole.String(),
		t.NotesText(),
	}
}

// ExportCollections writes the collections report as an .xlsx workbook
func (s *ReportService) ExportCollections(ctx context.Context, rng TimeRange, role *enum.UserRole) (*ExportFile, error) {
	report, err := s.Collections(ctx, rng, role)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(report.Transactions))
	for i := range report.Transactions {
		t := &report.Transactions[i]
		name := "Unknown Sub"
		if t.Customer != nil {
			name = t.Customer.Name
		}
		rows = append(rows, s.collectionRow(t, name))
	}

	content, err := writeWorkbook("Collections", collectionHeaders, rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName: fmt.Sprintf("collections_%s_%s.xlsx", rng, s.clock().In(s.loc).Format(dayLayout)),
		Content:  content,
	}, nil
}

// ExportOutstandingDues writes the dues report as an .xlsx workbook
func (s *ReportService) ExportOutstandingDues(ctx context.Context) (*ExportFile, error) {
	report, err := s.OutstandingDues(ctx)
	if err != nil {
		return nil, err
	}

	headers := []string{"Subscriber Name", "Phone", "Address", "Monthly Plan", "Total Due", "Due Day", "Status"}
	rows := make([][]interface{}, 0, len(report.Customers))
	for _, c := range report.Customers {
		rows = append(rows, []interface{}{
			c.Name,
			c.Phone,
			c.Address,
			money.FromMinor(c.MonthlyPlanAmount),
			money.FromMinor(c.TotalDue),
			c.DueDay,
			c.Status.String(),
		})
	}

	content, err := writeWorkbook("Dues", headers, rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName: fmt.Sprintf("outstanding_dues_%s.xlsx", s.clock().In(s.loc).Format(dayLayout)),
		Content:  content,
	}, nil
}

// ExportLedger writes one customer's filtered ledger as an .xlsx workbook
func (s *ReportService) ExportLedger(ctx context.Context, customerID uuid.UUID, filter *LedgerFilter) (*ExportFile, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	txns, err := s.ledger.GetLedger(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}

	headers := append(append([]string{}, collectionHeaders...), "Payment Type")
	rows := make([][]interface{}, 0, len(txns))
	for i := range txns {
		row := s.collectionRow(&txns[i], customer.Name)
		rows = append(rows, append(row, txns[i].PaymentType.String()))
	}

	content, err := writeWorkbook("Ledger", headers, rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName: fmt.Sprintf("ledger_%s_%s.xlsx", strings.ToLower(strings.ReplaceAll(customer.Name, " ", "_")), s.clock().In(s.loc).Format(dayLayout)),
		Content:  content,
	}, nil
}

func writeWorkbook(sheetName string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
