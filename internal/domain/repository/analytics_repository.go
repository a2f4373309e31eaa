package repository

import (
	"context"
	"time"

	"github.com/sangkips/isp-billing-api/internal/domain/enum"
)

// CollectorTotalResult represents the amount collected by one collector
type CollectorTotalResult struct {
	CollectorName string
	Total         int64
	Count         int64
}

// DueSummaryResult represents outstanding receivables
type DueSummaryResult struct {
	Total int64
	Count int64
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// SumCollected returns the amount collected in [from, to], optionally for one collector role
	SumCollected(ctx context.Context, from, to time.Time, role *enum.UserRole) (int64, error)

	// GetCollectorTotals returns per-collector totals in [from, to], largest first
	GetCollectorTotals(ctx context.Context, from, to time.Time) ([]CollectorTotalResult, error)

	// GetPendingDues sums total_due over customers with a positive due
	GetPendingDues(ctx context.Context) (DueSummaryResult, error)

	// CountCustomersByStatus counts customers in a status
	CountCustomersByStatus(ctx context.Context, status enum.CustomerStatus) (int64, error)
}
