package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLockoutWindow = 15 * time.Minute

// LoginLimiter counts failed logins per account key in Redis.
// Key format: login_failures:<lower-cased key>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter. maxAttempts <= 0 disables
// throttling; window <= 0 selects a 15 minute window.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = defaultLockoutWindow
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Blocked reports whether key has reached the failure limit within the
// current window.
func (l *LoginLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	if l.maxAttempts <= 0 {
		return false, nil
	}
	n, err := l.client.Get(ctx, l.key(key)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// RecordFailure increments the failure counter. The window starts at the
// first failure; the counter and its expiry are written in one transaction.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	if l.maxAttempts <= 0 {
		return nil
	}
	k := l.key(key)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, l.window)
		pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if l.maxAttempts <= 0 {
		return nil
	}
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(login string) string {
	return "login_failures:" + strings.ToLower(strings.TrimSpace(login))
}
