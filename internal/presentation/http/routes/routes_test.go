package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/application/service"
	"github.com/sangkips/isp-billing-api/internal/config"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/lock"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/isp-billing-api/pkg/printer"
	"github.com/sangkips/isp-billing-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	log := zap.NewNop()
	locker := lock.NewKeyedMutex()
	clock := service.SystemClock

	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	authService, err := service.NewAuthService([]service.PINAccount{
		{Actor: entity.Actor{ID: "admin", Name: "Vinod", Role: enum.UserRoleAdmin}, PIN: "1234"},
		{Actor: entity.Actor{ID: "agent", Name: "Subhajit", Role: enum.UserRoleAgent}, PIN: "0000"},
	}, utils.NewJWTManager("test-secret", time.Hour, "test"), log)
	require.NoError(t, err)

	customerService := service.NewCustomerService(customerRepo, locker, clock, log)
	ledgerService := service.NewLedgerService(customerRepo, transactionRepo, locker, clock, time.UTC, log)
	reportService := service.NewReportService(transactionRepo, customerRepo, ledgerService, clock, time.UTC)

	handlers := &Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Customer:  handler.NewCustomerHandler(customerService, ledgerService),
		Ledger:    handler.NewLedgerHandler(ledgerService, reportService),
		Printer:   handler.NewPrinterHandler(service.NewReceiptService(printer.NewNullPrinter(), transactionRepo, entity.ReceiptHeader{BusinessName: "Speed Net"}, "₹", time.UTC, log)),
		Reminder:  handler.NewReminderHandler(service.NewReminderService(customerRepo, transactionRepo, "Speed Net", "₹", time.UTC)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(analyticsRepo, customerRepo, clock, time.UTC)),
		Report:    handler.NewReportHandler(reportService),
	}

	limiter := middleware.NewActorRateLimiter(middleware.RateLimiterConfigFromWindow(1000, 1))
	t.Cleanup(limiter.Stop)

	router := Setup(handlers, &Deps{
		Verifier:        authService,
		Cfg:             &config.Config{App: config.AppConfig{Name: "isp-billing-api"}},
		Log:             log,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		Locker:          locker,
		RateLimiter:     limiter,
		HealthCheck:     sqlDB.PingContext,
	})

	return &testAPI{t: t, router: router, db: db}
}

func (a *testAPI) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(pin string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"pin": pin})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(a.t, w, &data)
	return data.AccessToken
}

func (a *testAPI) createCustomer(token, name string, plan float64) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/customers", token, map[string]interface{}{
		"name":                name,
		"phone":               "9876543210",
		"address":             "Koramangala",
		"monthly_plan_amount": plan,
		"due_day":             10,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		ID string `json:"id"`
	}
	decodeData(a.t, w, &data)
	return data.ID
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"pin": "9999"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := api.login("0000")
	w = api.do(http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Actor   entity.Actor `json:"actor"`
		IsAdmin bool         `json:"is_admin"`
	}
	decodeData(t, w, &profile)
	assert.Equal(t, "Subhajit", profile.Actor.Name)
	assert.False(t, profile.IsAdmin)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/v1/customers", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	api := newTestAPI(t)
	agent := api.login("0000")

	w := api.do(http.MethodPost, "/api/v1/customers", agent, map[string]interface{}{"name": "X", "due_day": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, "/api/v1/reports/dues", agent, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPaymentFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("1234")
	agent := api.login("0000")
	id := api.createCustomer(admin, "Abdur Rahman", 500)

	w := api.do(http.MethodPost, "/api/v1/customers/"+id+"/payments", agent, map[string]interface{}{"amount": 200, "notes": "  cash  "})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result struct {
		Transaction struct {
			ID                string  `json:"id"`
			AmountPaid        float64 `json:"amount_paid"`
			RemainingDueAfter float64 `json:"remaining_due_after"`
			PaymentType       string  `json:"payment_type"`
			CollectorName     string  `json:"collector_name"`
			CollectorRole     string  `json:"collector_role"`
			Notes             *string `json:"notes"`
		} `json:"transaction"`
		Customer struct {
			TotalDue float64 `json:"total_due"`
		} `json:"customer"`
	}
	decodeData(t, w, &result)
	assert.Equal(t, 200.0, result.Transaction.AmountPaid)
	assert.Equal(t, 300.0, result.Transaction.RemainingDueAfter)
	assert.Equal(t, "PART", result.Transaction.PaymentType)
	assert.Equal(t, "Subhajit", result.Transaction.CollectorName)
	assert.Equal(t, "AGENT", result.Transaction.CollectorRole)
	require.NotNil(t, result.Transaction.Notes)
	assert.Equal(t, "cash", *result.Transaction.Notes)
	assert.Equal(t, 300.0, result.Customer.TotalDue)

	w = api.do(http.MethodGet, "/api/v1/customers/"+id+"/ledger?payment_type=PART", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ledger []map[string]interface{}
	decodeData(t, w, &ledger)
	assert.Len(t, ledger, 1)

	w = api.do(http.MethodGet, "/api/v1/transactions/"+result.Transaction.ID+"/receipt", agent, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/v1/transactions/"+result.Transaction.ID+"/receipt/print", agent, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/v1/transactions/"+result.Transaction.ID+"/share", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://wa.me/9876543210?text=")

	w = api.do(http.MethodGet, "/api/v1/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Stats struct {
			CollectionToday float64 `json:"collection_today"`
			PendingDues     float64 `json:"pending_dues"`
		} `json:"stats"`
	}
	decodeData(t, w, &dash)
	assert.Equal(t, 200.0, dash.Stats.CollectionToday)
	assert.Equal(t, 300.0, dash.Stats.PendingDues)
}

func TestRecordPayment_Validation(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("1234")
	id := api.createCustomer(admin, "John Doe", 500)

	w := api.do(http.MethodPost, "/api/v1/customers/"+id+"/payments", admin, map[string]interface{}{"amount": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(http.MethodPost, "/api/v1/customers/not-a-uuid/payments", admin, map[string]interface{}{"amount": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/v1/customers/6f1c1c3e-5a53-4a8f-9a52-1f0c7d1d2f11/payments", admin, map[string]interface{}{"amount": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/v1/customers/"+id+"/ledger?from=15-02-2024", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRecordPayment_IdempotencyKeyReplays(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("1234")
	id := api.createCustomer(admin, "John Doe", 500)
	path := "/api/v1/customers/" + id + "/payments"
	body := map[string]interface{}{"amount": 100}

	first := api.do(http.MethodPost, path, admin, body, "Idempotency-Key", "pay-1")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(middleware.IdempotencyReplayedHeader))

	second := api.do(http.MethodPost, path, admin, body, "Idempotency-Key", "pay-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	conflict := api.do(http.MethodPost, path, admin, map[string]interface{}{"amount": 999}, "Idempotency-Key", "pay-1")
	assert.Equal(t, http.StatusUnprocessableEntity, conflict.Code)

	var count int64
	require.NoError(t, api.db.Model(&entity.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var customer entity.Customer
	require.NoError(t, api.db.First(&customer, "id = ?", id).Error)
	assert.Equal(t, int64(40000), customer.TotalDue)
}

func TestRecordPayment_IdempotencyKeyIsBoundToCustomer(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("1234")
	first := api.createCustomer(admin, "Abdur Rahman", 500)
	other := api.createCustomer(admin, "John Doe", 500)
	body := map[string]interface{}{"amount": 100}

	w := api.do(http.MethodPost, "/api/v1/customers/"+first+"/payments", admin, body, "Idempotency-Key", "pay-1")
	require.Equal(t, http.StatusCreated, w.Code)

	// same key and body against another account must not replay the first receipt
	w = api.do(http.MethodPost, "/api/v1/customers/"+other+"/payments", admin, body, "Idempotency-Key", "pay-1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, w.Header().Get(middleware.IdempotencyReplayedHeader))

	var count int64
	require.NoError(t, api.db.Model(&entity.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var customer entity.Customer
	require.NoError(t, api.db.First(&customer, "id = ?", other).Error)
	assert.Equal(t, int64(50000), customer.TotalDue)
}

func TestRecordPayment_AmountOutOfRange(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("1234")
	id := api.createCustomer(admin, "John Doe", 500)

	w := api.do(http.MethodPost, "/api/v1/customers/"+id+"/payments", admin, map[string]interface{}{"amount": 184467440737095520.0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var count int64
	require.NoError(t, api.db.Model(&entity.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)

	var customer entity.Customer
	require.NoError(t, api.db.First(&customer, "id = ?", id).Error)
	assert.Equal(t, int64(50000), customer.TotalDue)
}

func TestStatusUpdateAndCustomerVisibility(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("1234")
	agent := api.login("0000")
	api.createCustomer(admin, "Owes", 500)
	paid := api.createCustomer(admin, "Paid Up", 500)

	w := api.do(http.MethodPost, "/api/v1/customers/"+paid+"/payments", admin, map[string]interface{}{"amount": 500})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodPut, "/api/v1/customers/"+paid+"/status", admin, map[string]string{"status": "suspended"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"SUSPENDED"`)

	w = api.do(http.MethodPut, "/api/v1/customers/"+paid+"/status", admin, map[string]string{"status": "CLOSED"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var list struct {
		Items      []map[string]interface{} `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	w = api.do(http.MethodGet, "/api/v1/customers", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &list)
	assert.Equal(t, int64(2), list.Pagination.Total)

	w = api.do(http.MethodGet, "/api/v1/customers", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &list)
	assert.Equal(t, int64(1), list.Pagination.Total)
	assert.Equal(t, "Owes", list.Items[0]["name"])
}

func TestExports(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("1234")
	id := api.createCustomer(admin, "John Doe", 500)

	for _, path := range []string{
		"/api/v1/reports/dues/export",
		"/api/v1/reports/collections/export?range=all&role=ALL",
		"/api/v1/customers/" + id + "/ledger/export",
	} {
		w := api.do(http.MethodGet, path, admin, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, service.XLSXContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=")
		assert.NotZero(t, w.Body.Len())
	}

	w := api.do(http.MethodGet, "/api/v1/reports/collections?range=decade", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthDegraded(t *testing.T) {
	api := newTestAPI(t)
	sqlDB, err := api.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.PingContext(context.Background()))
	require.NoError(t, sqlDB.Close())

	w := api.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeData(t, w, nil)
	assert.False(t, env.Success)
}
