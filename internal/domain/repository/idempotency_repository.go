package repository

import (
	"context"
	"time"

	"github.com/sangkips/isp-billing-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and actor ID
	GetByKey(ctx context.Context, key string, actorID string) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys that expired before the given instant and reports how many
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
