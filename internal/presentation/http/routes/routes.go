package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/config"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/isp-billing-api/internal/domain/repository"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/lock"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Customer  *handler.CustomerHandler
	Ledger    *handler.LedgerHandler
	Printer   *handler.PrinterHandler
	Reminder  *handler.ReminderHandler
	Dashboard *handler.DashboardHandler
	Report    *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Verifier        middleware.TokenVerifier
	Cfg             *config.Config
	Log             *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	Locker          lock.Locker
	RateLimiter     *middleware.ActorRateLimiter
	// HealthCheck reports whether the database is reachable; nil skips the check
	HealthCheck func(ctx context.Context) error
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", healthHandler(deps))
	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler(deps))

		// Public routes, limited per client IP
		public := v1.Group("")
		public.Use(deps.RateLimiter.Middleware())
		registerAuthRoutes(public, h)

		// Protected routes, limited per operator
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Verifier))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func healthHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if deps.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.HealthCheck(ctx); err != nil {
				deps.Log.Warn("health check failed", zap.Error(err))
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	}
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	admin := middleware.RequireRole(enum.UserRoleAdmin)

	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetDashboard)
	protected.GET("/dashboard/stats", h.Dashboard.GetStats)

	registerCustomerRoutes(protected, h, deps, admin)
	registerTransactionRoutes(protected, h)
	registerReportRoutes(protected, h, admin)

	// Printer
	protected.GET("/printer/status", h.Printer.GetStatus)
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps, admin gin.HandlerFunc) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Locker: deps.Locker,
		Log:    deps.Log,
	})

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", admin, h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", admin, h.Customer.Update)
		customers.PUT("/:id/status", admin, h.Customer.UpdateStatus)
		customers.POST("/:id/payments", idempotency, h.Ledger.RecordPayment)
		customers.GET("/:id/ledger", h.Ledger.GetLedger)
		customers.GET("/:id/ledger/export", admin, h.Ledger.ExportLedger)
		customers.GET("/:id/reminder", h.Reminder.DueReminder)
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers) {
	transactions := protected.Group("/transactions")
	{
		transactions.GET("/:id/receipt", h.Printer.GetReceipt)
		transactions.POST("/:id/receipt/print", h.Printer.PrintReceipt)
		transactions.GET("/:id/share", h.Reminder.ReceiptShare)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers, admin gin.HandlerFunc) {
	reports := protected.Group("/reports", admin)
	{
		reports.GET("/collections", h.Report.Collections)
		reports.GET("/collections/export", h.Report.ExportCollections)
		reports.GET("/dues", h.Report.Dues)
		reports.GET("/dues/export", h.Report.ExportDues)
	}
}
