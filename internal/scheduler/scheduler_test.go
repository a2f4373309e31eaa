package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/isp-billing-api/internal/config"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeIdempotencyRepo struct {
	before  time.Time
	deleted int64
	err     error
	calls   int
}

func (r *fakeIdempotencyRepo) GetByKey(context.Context, string, string) (*entity.IdempotencyKey, error) {
	return nil, nil
}

func (r *fakeIdempotencyRepo) Create(context.Context, *entity.IdempotencyKey) error { return nil }

func (r *fakeIdempotencyRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.calls++
	r.before = before
	return r.deleted, r.err
}

func TestNew_RejectsBadSpec(t *testing.T) {
	_, err := New(config.SchedulerConfig{IdempotencyPurge: "every now and then"}, &fakeIdempotencyRepo{}, zap.NewNop())
	assert.Error(t, err)
}

func TestNew_RegistersPurgeJob(t *testing.T) {
	s, err := New(config.SchedulerConfig{IdempotencyPurge: "@hourly"}, &fakeIdempotencyRepo{}, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	s.Start()
	s.Stop(context.Background())
}

func TestPurgeIdempotencyKeys(t *testing.T) {
	repo := &fakeIdempotencyRepo{deleted: 3}
	s, err := New(config.SchedulerConfig{IdempotencyPurge: "@hourly"}, repo, zaptest.NewLogger(t))
	require.NoError(t, err)

	fixed := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.PurgeIdempotencyKeys()
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, fixed, repo.before)

	repo.err = errors.New("db down")
	s.PurgeIdempotencyKeys()
	assert.Equal(t, 2, repo.calls)
}
