package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

type fakeCouponDeactivator struct {
	calls []time.Time
	count int64
	err   error
}

func (f *fakeCouponDeactivator) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	f.calls = append(f.calls, now)
	return f.count, f.err
}

type fakeCartSweeper struct {
	cutoffs []time.Time
	count   int64
	err     error
}

func (f *fakeCartSweeper) DeleteAbandonedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.count, f.err
}

func TestCouponExpiryJobSweeps(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	deactivator := &fakeCouponDeactivator{count: 3}
	jobIface, err := NewCouponExpiryJob(CouponExpiryJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Coupons: deactivator,
	})
	if err != nil {
		t.Fatalf("NewCouponExpiryJob: %v", err)
	}
	job := jobIface.(*couponExpiryJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(deactivator.calls) != 1 {
		t.Fatalf("expected one sweep, got %d", len(deactivator.calls))
	}
	if !deactivator.calls[0].Equal(now) {
		t.Fatalf("unexpected sweep time: %s", deactivator.calls[0])
	}
}

func TestCouponExpiryJobPropagatesError(t *testing.T) {
	deactivator := &fakeCouponDeactivator{err: fmt.Errorf("db gone")}
	job, err := NewCouponExpiryJob(CouponExpiryJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Coupons: deactivator,
	})
	if err != nil {
		t.Fatalf("NewCouponExpiryJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCartCleanupJobUsesConfiguredTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	sweeper := &fakeCartSweeper{count: 7}
	jobIface, err := NewCartCleanupJob(CartCleanupJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Carts:  sweeper,
		TTL:    72 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCartCleanupJob: %v", err)
	}
	job := jobIface.(*cartCleanupJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sweeper.cutoffs) != 1 {
		t.Fatalf("expected one sweep, got %d", len(sweeper.cutoffs))
	}
	want := now.Add(-72 * time.Hour)
	if !sweeper.cutoffs[0].Equal(want) {
		t.Fatalf("cutoff = %s, want %s", sweeper.cutoffs[0], want)
	}
}

func TestCartCleanupJobDefaultsTTL(t *testing.T) {
	jobIface, err := NewCartCleanupJob(CartCleanupJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Carts:  &fakeCartSweeper{},
	})
	if err != nil {
		t.Fatalf("NewCartCleanupJob: %v", err)
	}
	job := jobIface.(*cartCleanupJob)
	if job.ttl != defaultAbandonedCartTTL {
		t.Fatalf("ttl = %s, want %s", job.ttl, defaultAbandonedCartTTL)
	}
}
