package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/lock"
	infraRepo "github.com/sangkips/isp-billing-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	adminActor = entity.Actor{ID: "admin", Name: "Vinod", Role: enum.UserRoleAdmin}
	agentActor = entity.Actor{ID: "agent", Name: "Subhajit", Role: enum.UserRoleAgent}
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	db        *gorm.DB
	clock     *testClock
	customers *CustomerService
	ledger    *LedgerService
	dashboard *DashboardService
	reports   *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entity.Customer{}, &entity.Transaction{}, &entity.IdempotencyKey{}))

	clk := &testClock{now: time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)}
	log := zap.NewNop()
	locker := lock.NewKeyedMutex()

	customerRepo := infraRepo.NewCustomerRepository(db)
	transactionRepo := infraRepo.NewTransactionRepository(db)
	analyticsRepo := infraRepo.NewAnalyticsRepository(db)

	ledger := NewLedgerService(customerRepo, transactionRepo, locker, clk.Now, time.UTC, log)
	return &fixture{
		db:        db,
		clock:     clk,
		customers: NewCustomerService(customerRepo, locker, clk.Now, log),
		ledger:    ledger,
		dashboard: NewDashboardService(analyticsRepo, customerRepo, clk.Now, time.UTC),
		reports:   NewReportService(transactionRepo, customerRepo, ledger, clk.Now, time.UTC),
	}
}

// customerWithDue creates a customer and then sets the due explicitly
func (f *fixture) customerWithDue(t *testing.T, name string, due float64) *entity.Customer {
	t.Helper()
	c, err := f.customers.CreateCustomer(context.Background(), &CreateCustomerInput{
		Name:              name,
		Phone:             "9123456789",
		Address:           "Indiranagar, Bangalore",
		MonthlyPlanAmount: 500,
		DueDay:            5,
	})
	require.NoError(t, err)

	c, err = f.customers.UpdateCustomer(context.Background(), c.ID, &UpdateCustomerInput{TotalDue: &due})
	require.NoError(t, err)
	return c
}

func (f *fixture) pay(t *testing.T, c *entity.Customer, amount float64, actor entity.Actor, notes string, at time.Time) *entity.Transaction {
	t.Helper()
	f.clock.Set(at)
	var n *string
	if notes != "" {
		n = &notes
	}
	res, err := f.ledger.RecordPayment(context.Background(), &RecordPaymentInput{
		CustomerID: c.ID,
		Amount:     amount,
		Actor:      actor,
		Notes:      n,
	})
	require.NoError(t, err)
	return res.Transaction
}
