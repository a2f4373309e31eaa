package database

import (
	"fmt"
	"time"

	"github.com/sangkips/isp-billing-api/internal/config"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the configured database (postgres or sqlite)
func New(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "postgres", "":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info("connected to database", zap.String("driver", db.Dialector.Name()))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Customer{},
		&entity.Transaction{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDemoData inserts a few subscribers into an empty customers table
func SeedDemoData(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.Customer{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count customers: %w", err)
	}
	if count > 0 {
		log.Info("customers present, skipping demo seed", zap.Int64("count", count))
		return nil
	}

	billed := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	customers := []entity.Customer{
		{Name: "Abdur Rahman", Phone: "8759114530", Address: "Kaliachak, Malda", MonthlyPlanAmount: 50000, TotalDue: 50000, Status: enum.CustomerStatusActive, DueDay: 1, LastBilledDate: billed},
		{Name: "John Doe", Phone: "9123456789", Address: "Indiranagar, Bangalore", MonthlyPlanAmount: 100000, TotalDue: 120000, Status: enum.CustomerStatusActive, DueDay: 5, LastBilledDate: billed},
		{Name: "Sadia Sultana", Phone: "9988776655", Address: "DLF Phase 3, Gurgaon", MonthlyPlanAmount: 80000, TotalDue: 0, Status: enum.CustomerStatusSuspended, DueDay: 10, LastBilledDate: billed},
	}
	if err := db.Create(&customers).Error; err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}

	log.Info("demo customers seeded", zap.Int("count", len(customers)))
	return nil
}
