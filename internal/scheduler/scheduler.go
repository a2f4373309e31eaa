package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sangkips/isp-billing-api/internal/config"
	"github.com/sangkips/isp-billing-api/internal/domain/repository"
	"go.uber.org/zap"
)

const jobTimeout = time.Minute

// Scheduler runs housekeeping jobs on cron schedules
type Scheduler struct {
	cron            *cron.Cron
	idempotencyRepo repository.IdempotencyRepository
	now             func() time.Time
	log             *zap.Logger
}

// New creates a scheduler and registers its jobs
func New(cfg config.SchedulerConfig, idempotencyRepo repository.IdempotencyRepository, log *zap.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
	)

	s := &Scheduler{
		cron:            c,
		idempotencyRepo: idempotencyRepo,
		now:             time.Now,
		log:             log,
	}

	if _, err := c.AddFunc(cfg.IdempotencyPurge, s.PurgeIdempotencyKeys); err != nil {
		return nil, fmt.Errorf("register idempotency purge %q: %w", cfg.IdempotencyPurge, err)
	}

	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

// PurgeIdempotencyKeys deletes expired idempotency keys
func (s *Scheduler) PurgeIdempotencyKeys() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.idempotencyRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("idempotency purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("purged expired idempotency keys", zap.Int64("deleted", n))
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
