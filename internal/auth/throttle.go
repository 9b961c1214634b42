package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/config"
)

const failureKeyPrefix = "login:failures:"

// LoginThrottle counts failed logins per username in Redis. A nil client or a
// non-positive limit disables it. Redis errors fail open.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginThrottle builds the throttle.
func NewLoginThrottle(client *redis.Client, cfg config.ThrottleConfig, logger *zap.Logger) *LoginThrottle {
	return &LoginThrottle{
		client:      client,
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.LockoutWindow(),
		logger:      logger,
	}
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.client != nil && t.maxAttempts > 0 && t.window > 0
}

// Allow reports whether username may attempt another login.
func (t *LoginThrottle) Allow(ctx context.Context, username string) bool {
	if !t.enabled() {
		return true
	}
	count, err := t.client.Get(ctx, failureKey(username)).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			t.logger.Warn("login throttle lookup failed", zap.Error(err))
		}
		return true
	}
	return count < t.maxAttempts
}

// RecordFailure increments the failure counter and refreshes its expiry.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if !t.enabled() {
		return
	}
	key := failureKey(username)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, t.window)
		return nil
	})
	if err != nil {
		t.logger.Warn("login throttle update failed", zap.Error(err))
	}
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	if !t.enabled() {
		return
	}
	if err := t.client.Del(ctx, failureKey(username)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}

func failureKey(username string) string {
	return failureKeyPrefix + strings.ToLower(username)
}
