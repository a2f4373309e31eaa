package service

import (
	"context"
	"time"

	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/internal/domain/repository"
	"github.com/sangkips/isp-billing-api/pkg/money"
)

const defaultTopPending = 5

// DashboardService provides collection and receivable aggregates. Nothing here is persisted;
// every figure is recomputed against the clock.
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	customerRepo  repository.CustomerRepository
	clock         Clock
	loc           *time.Location
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	customerRepo repository.CustomerRepository,
	clock Clock,
	loc *time.Location,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		customerRepo:  customerRepo,
		clock:         clock,
		loc:           loc,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	CollectionToday      float64   `json:"collection_today"`
	CollectionWeek       float64   `json:"collection_week"`
	CollectionMonth      float64   `json:"collection_month"`
	CollectionYear       float64   `json:"collection_year"`
	AdminCollectionToday float64   `json:"admin_collection_today"`
	AgentCollectionToday float64   `json:"agent_collection_today"`
	PendingDues          float64   `json:"pending_dues"`
	PendingCustomers     int64     `json:"pending_customers"`
	ActiveCustomers      int64     `json:"active_customers"`
	AsOf                 time.Time `json:"as_of"`
}

// CollectorTotal is one row of the per-collector breakdown
type CollectorTotal struct {
	CollectorName string  `json:"collector_name"`
	Amount        float64 `json:"amount"`
	Count         int64   `json:"count"`
}

// Dashboard bundles everything the overview screen shows
type Dashboard struct {
	Stats              *DashboardStats   `json:"stats"`
	CollectorBreakdown []CollectorTotal  `json:"collector_breakdown"`
	TopPending         []entity.Customer `json:"top_pending"`
}

// GetStats computes collection totals up to now and the outstanding receivables
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	now := s.clock()
	stats := &DashboardStats{AsOf: now}

	sums := []struct {
		period Period
		role   *enum.UserRole
		dst    *float64
	}{
		{todayPeriod(now, s.loc), nil, &stats.CollectionToday},
		{weekPeriod(now), nil, &stats.CollectionWeek},
		{monthPeriod(now, s.loc), nil, &stats.CollectionMonth},
		{yearPeriod(now, s.loc), nil, &stats.CollectionYear},
		{todayPeriod(now, s.loc), rolePtr(enum.UserRoleAdmin), &stats.AdminCollectionToday},
		{todayPeriod(now, s.loc), rolePtr(enum.UserRoleAgent), &stats.AgentCollectionToday},
	}
	for _, sum := range sums {
		total, err := s.analyticsRepo.SumCollected(ctx, sum.period.From, sum.period.To, sum.role)
		if err != nil {
			return nil, err
		}
		*sum.dst = money.FromMinor(total)
	}

	dues, err := s.analyticsRepo.GetPendingDues(ctx)
	if err != nil {
		return nil, err
	}
	stats.PendingDues = money.FromMinor(dues.Total)
	stats.PendingCustomers = dues.Count

	stats.ActiveCustomers, err = s.analyticsRepo.CountCustomersByStatus(ctx, enum.CustomerStatusActive)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// CollectorBreakdown returns today's totals per collector name, largest first
func (s *DashboardService) CollectorBreakdown(ctx context.Context) ([]CollectorTotal, error) {
	today := todayPeriod(s.clock(), s.loc)
	results, err := s.analyticsRepo.GetCollectorTotals(ctx, today.From, today.To)
	if err != nil {
		return nil, err
	}

	out := make([]CollectorTotal, 0, len(results))
	for _, r := range results {
		out = append(out, CollectorTotal{
			CollectorName: r.CollectorName,
			Amount:        money.FromMinor(r.Total),
			Count:         r.Count,
		})
	}
	return out, nil
}

// TopPending returns the customers owing the most
func (s *DashboardService) TopPending(ctx context.Context, limit int) ([]entity.Customer, error) {
	if limit <= 0 {
		limit = defaultTopPending
	}
	customers, err := s.customerRepo.ListWithDue(ctx, limit)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []entity.Customer{}
	}
	return customers, nil
}

// GetDashboard assembles stats, breakdown and top pending accounts
func (s *DashboardService) GetDashboard(ctx context.Context, topLimit int) (*Dashboard, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.CollectorBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.TopPending(ctx, topLimit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, CollectorBreakdown: breakdown, TopPending: top}, nil
}

func rolePtr(r enum.UserRole) *enum.UserRole {
	return &r
}
