package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

const defaultAbandonedCartTTL = 30 * 24 * time.Hour

type abandonedCartSweeper interface {
	DeleteAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartCleanupJobParams configure the abandoned cart sweep.
type CartCleanupJobParams struct {
	Logger *logger.Logger
	Carts  abandonedCartSweeper
	TTL    time.Duration
}

// NewCartCleanupJob builds the job that drops guest carts nobody touched
// within the TTL. Carts attached to a user are kept indefinitely.
func NewCartCleanupJob(params CartCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("carts repository required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultAbandonedCartTTL
	}
	return &cartCleanupJob{
		logg:  params.Logger,
		carts: params.Carts,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

type cartCleanupJob struct {
	logg  *logger.Logger
	carts abandonedCartSweeper
	ttl   time.Duration
	now   func() time.Time
}

func (j *cartCleanupJob) Name() string { return "cart-cleanup" }

func (j *cartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	count, err := j.carts.DeleteAbandonedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete abandoned carts: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "count", count)
	j.logg.Info(logCtx, "abandoned carts removed")
	return nil
}
