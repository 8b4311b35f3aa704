// Package throttle enforces a quiet period between repeated actions on the
// same key, backed by redis.
package throttle

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidWindow is returned for a non-positive window.
var ErrInvalidWindow = errors.New("throttle: window must be positive")

// Cooldown grants at most one action per key per window.
type Cooldown interface {
	// Acquire reports whether the caller may act now. When it may not,
	// retryAfter is how long until the key frees up.
	Acquire(ctx context.Context, key string, window time.Duration) (ok bool, retryAfter time.Duration, err error)
	// Release frees key early, for example when the guarded action failed.
	Release(ctx context.Context, key string) error
}

// Redis implements Cooldown with SET NX PX.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis returns a Redis cooldown whose keys are prefixed with prefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Acquire(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	if window <= 0 {
		return false, 0, ErrInvalidWindow
	}

	fk := r.prefix + key

	acquired, err := r.client.SetNX(ctx, fk, time.Now().UnixMilli(), window).Result()
	if err != nil {
		return false, 0, err
	}
	if acquired {
		return true, 0, nil
	}

	ttl, err := r.client.PTTL(ctx, fk).Result()
	if err != nil {
		return false, 0, err
	}
	// Key vanished between SETNX and PTTL, or carries no expiry.
	if ttl <= 0 {
		ttl = window
	}

	return false, ttl, nil
}

func (r *Redis) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
