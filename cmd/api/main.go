package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/isp-billing-api/internal/application/service"
	"github.com/sangkips/isp-billing-api/internal/config"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/database"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/lock"
	"github.com/sangkips/isp-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/isp-billing-api/internal/logger"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/routes"
	"github.com/sangkips/isp-billing-api/internal/scheduler"
	"github.com/sangkips/isp-billing-api/pkg/printer"
	"github.com/sangkips/isp-billing-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	loc := cfg.App.Location()

	// Connect to database
	db, err := database.New(&cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	if cfg.Database.SeedDemo {
		if err := database.SeedDemoData(db, zlog); err != nil {
			zlog.Warn("failed to seed demo data", zap.Error(err))
		}
	}

	// Per-customer lock: in-process always, Redis as well when several instances share the database
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		locker = lock.Chain{locker, lock.NewRedisLocker(client, cfg.Redis.LockTTL, zlog)}
		zlog.Info("distributed customer lock enabled", zap.String("addr", cfg.Redis.Addr))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.App.Name)

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	clock := service.SystemClock
	authService, err := service.NewAuthService([]service.PINAccount{
		{Actor: entity.Actor{ID: "admin", Name: cfg.Auth.AdminName, Role: enum.UserRoleAdmin}, PIN: cfg.Auth.AdminPIN},
		{Actor: entity.Actor{ID: "agent", Name: cfg.Auth.AgentName, Role: enum.UserRoleAgent}, PIN: cfg.Auth.AgentPIN},
	}, jwtManager, zlog)
	if err != nil {
		zlog.Fatal("invalid access PIN configuration", zap.Error(err))
	}
	customerService := service.NewCustomerService(customerRepo, locker, clock, zlog)
	ledgerService := service.NewLedgerService(customerRepo, transactionRepo, locker, clock, loc, zlog)
	dashboardService := service.NewDashboardService(analyticsRepo, customerRepo, clock, loc)
	reportService := service.NewReportService(transactionRepo, customerRepo, ledgerService, clock, loc)
	reminderService := service.NewReminderService(customerRepo, transactionRepo, cfg.Business.Name, cfg.Business.CurrencySymbol, loc)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		zlog.Warn("failed to initialize printer, receipts will not be printed", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	receiptService := service.NewReceiptService(thermalPrinter, transactionRepo, entity.ReceiptHeader{
		BusinessName: cfg.Business.Name,
		Address:      cfg.Business.Address,
		Phone:        cfg.Business.Phone,
		TaxID:        cfg.Business.TaxID,
	}, cfg.Business.CurrencySymbol, loc, zlog)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Customer:  handler.NewCustomerHandler(customerService, ledgerService),
		Ledger:    handler.NewLedgerHandler(ledgerService, reportService),
		Printer:   handler.NewPrinterHandler(receiptService),
		Reminder:  handler.NewReminderHandler(reminderService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Report:    handler.NewReportHandler(reportService),
	}

	rateLimiter := middleware.NewActorRateLimiter(middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("failed to access database handle", zap.Error(err))
	}
	defer func() { _ = sqlDB.Close() }()

	router := routes.Setup(handlers, &routes.Deps{
		Verifier:        authService,
		Cfg:             cfg,
		Log:             zlog,
		IdempotencyRepo: idempotencyRepo,
		Locker:          locker,
		RateLimiter:     rateLimiter,
		HealthCheck:     sqlDB.PingContext,
	})

	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(cfg.Scheduler, idempotencyRepo, zlog)
		if err != nil {
			zlog.Fatal("failed to create scheduler", zap.Error(err))
		}
		jobs.Start()
	}

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if jobs != nil {
		jobs.Stop(ctx)
	}
}
