package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Fallback when the worker interval is not configured; long enough to cover a
// slow sweep, short enough that a crashed worker frees the lock the same day.
const defaultLockTTL = 2 * time.Hour

// Lock makes a sweep cycle exclusive across worker replicas.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock is a SETNX lease. Each worker instance carries a fixed owner
// token; release deletes the key only while that token is still the stored
// value, so a replica can never free a lease it lost to TTL expiry.
type RedisLock struct {
	store lockStore
	key   string
	ttl   time.Duration
	owner string
	held  bool
}

func NewRedisLock(store lockStore, key string, ttl time.Duration) (*RedisLock, error) {
	if store == nil {
		return nil, errors.New("lock store required")
	}
	if key == "" {
		return nil, errors.New("lock key required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{
		store: store,
		key:   key,
		ttl:   ttl,
		owner: uuid.NewString(),
	}, nil
}

// Acquire leases the key for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	won, err := l.store.SetNX(ctx, l.key, l.owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquiring sweep lock: %w", err)
	}
	l.held = won
	return won, nil
}

// Release frees the lease if this instance still owns it. A missing key means
// the TTL already expired, which is not an error.
func (l *RedisLock) Release(ctx context.Context) error {
	if !l.held {
		return nil
	}
	l.held = false

	current, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("reading sweep lock owner: %w", err)
	}
	if current != l.owner {
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("releasing sweep lock: %w", err)
	}
	return nil
}
