package repository

import (
	"context"
	"time"

	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/isp-billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) SumCollected(ctx context.Context, from, to time.Time, role *enum.UserRole) (int64, error) {
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Select("CAST(COALESCE(SUM(amount_paid), 0) AS BIGINT)").
		Where("date >= ? AND date <= ?", from.UTC(), to.UTC())
	if role != nil {
		query = query.Where("collector_role = ?", *role)
	}

	if err := query.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *analyticsRepository) GetCollectorTotals(ctx context.Context, from, to time.Time) ([]domainRepo.CollectorTotalResult, error) {
	var results []domainRepo.CollectorTotalResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			collector_name,
			CAST(COALESCE(SUM(amount_paid), 0) AS BIGINT) as total,
			COUNT(*) as count
		FROM transactions
		WHERE date >= ? AND date <= ?
		GROUP BY collector_name
		ORDER BY total DESC, collector_name ASC
	`, from.UTC(), to.UTC()).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetPendingDues(ctx context.Context) (domainRepo.DueSummaryResult, error) {
	var result domainRepo.DueSummaryResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			CAST(COALESCE(SUM(total_due), 0) AS BIGINT) as total,
			COUNT(*) as count
		FROM customers
		WHERE total_due > 0
	`).Scan(&result).Error

	return result, err
}

func (r *analyticsRepository) CountCustomersByStatus(ctx context.Context, status enum.CustomerStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
