package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedisStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return true, nil
}

func (f *fakeRedisStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeRedisStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireAndRelease(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "qc:lock:cron", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !ok {
		t.Fatal("expected to acquire the lock")
	}
	if store.ttls["qc:lock:cron"] != time.Hour {
		t.Fatalf("unexpected ttl: %s", store.ttls["qc:lock:cron"])
	}

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, exists := store.values["qc:lock:cron"]; exists {
		t.Fatal("expected lock key to be deleted")
	}
}

func TestRedisLockContention(t *testing.T) {
	store := newFakeRedisStore()
	first, err := NewRedisLock(store, "qc:lock:cron", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, err := NewRedisLock(store, "qc:lock:cron", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	if ok, _ := first.Acquire(context.Background()); !ok {
		t.Fatal("expected first acquire to win")
	}
	if ok, _ := second.Acquire(context.Background()); ok {
		t.Fatal("expected second acquire to lose")
	}

	// a loser releasing must not free the winner's lock
	if err := second.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, exists := store.values["qc:lock:cron"]; !exists {
		t.Fatal("expected winner's lock to survive")
	}
}

func TestRedisLockReleaseAfterExpiry(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "qc:lock:cron", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if ok, _ := lock.Acquire(context.Background()); !ok {
		t.Fatal("expected to acquire the lock")
	}

	// the key vanished (TTL expiry); release must be a no-op
	delete(store.values, "qc:lock:cron")
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
}
