package cron

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

type fakeLock struct {
	available bool
	acquired  int
	released  int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquired++
	return f.available, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.released++
	return nil
}

type fakeJob struct {
	name string
	runs int
	err  error
}

func (f *fakeJob) Name() string { return f.name }

func (f *fakeJob) Run(context.Context) error {
	f.runs++
	return f.err
}

func newTestService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: NewRegistry(jobs...),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRunCycleExecutesJobsInOrder(t *testing.T) {
	lock := &fakeLock{available: true}
	first := &fakeJob{name: "coupon-expiry"}
	second := &fakeJob{name: "cart-cleanup"}
	svc := newTestService(t, lock, first, second)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if first.runs != 1 || second.runs != 1 {
		t.Fatalf("expected each job to run once, got %d and %d", first.runs, second.runs)
	}
	if lock.released != 1 {
		t.Fatalf("expected lock release, got %d", lock.released)
	}
}

func TestRunCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	lock := &fakeLock{available: false}
	job := &fakeJob{name: "coupon-expiry"}
	svc := newTestService(t, lock, job)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected no runs, got %d", job.runs)
	}
	if lock.released != 0 {
		t.Fatalf("expected no release of a lock we never held, got %d", lock.released)
	}
}

func TestRunCycleContinuesPastFailingJob(t *testing.T) {
	lock := &fakeLock{available: true}
	failing := &fakeJob{name: "coupon-expiry", err: fmt.Errorf("db gone")}
	healthy := &fakeJob{name: "cart-cleanup"}
	svc := newTestService(t, lock, failing, healthy)

	err := svc.runCycle(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !strings.Contains(err.Error(), "coupon-expiry") {
		t.Fatalf("expected the failing job named in the error, got %q", err)
	}
	if healthy.runs != 1 {
		t.Fatal("expected the healthy job to still run")
	}
}

func TestNewServiceRequiresLock(t *testing.T) {
	_, err := NewService(ServiceParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	if err == nil {
		t.Fatal("expected error without a lock")
	}
}
