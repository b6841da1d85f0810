package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

type expiredCouponDeactivator interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// CouponExpiryJobParams configure the coupon expiry sweep.
type CouponExpiryJobParams struct {
	Logger  *logger.Logger
	Coupons expiredCouponDeactivator
}

// NewCouponExpiryJob builds the job that deactivates coupons past their
// expiry window, so lookups stop matching them without a row delete.
func NewCouponExpiryJob(params CouponExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	return &couponExpiryJob{
		logg:    params.Logger,
		coupons: params.Coupons,
		now:     time.Now,
	}, nil
}

type couponExpiryJob struct {
	logg    *logger.Logger
	coupons expiredCouponDeactivator
	now     func() time.Time
}

func (j *couponExpiryJob) Name() string { return "coupon-expiry" }

func (j *couponExpiryJob) Run(ctx context.Context) error {
	count, err := j.coupons.DeactivateExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate expired coupons: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "count", count)
	j.logg.Info(logCtx, "expired coupons deactivated")
	return nil
}
