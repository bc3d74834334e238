// Package rate enforces a login attempt budget using Redis counters.
// Counters expire after a cooldown window, so a locked-out identifier
// recovers on its own without operator action.
package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// Limiter enforces per-email and per-IP login attempt limits.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// CheckLogin checks whether the email+IP pair is within the login attempt
// budget. Returns ErrRateLimited when either counter is exhausted.
func (l *Limiter) CheckLogin(ctx context.Context, email, ip string) error {
	if err := l.checkCounter(ctx, loginEmailKey(email)); err != nil {
		return err
	}
	if ip != "" {
		if err := l.checkCounter(ctx, loginIPKey(ip)); err != nil {
			return err
		}
	}
	return nil
}

// IncrementLogin records a failed login attempt for the email+IP pair.
func (l *Limiter) IncrementLogin(ctx context.Context, email, ip string) error {
	count, err := l.incrementWithTTL(ctx, loginEmailKey(email))
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}

	if ip != "" {
		count, err = l.incrementWithTTL(ctx, loginIPKey(ip))
		if err != nil {
			return err
		}
		if count > int64(l.config.MaxLoginAttempts) {
			return ErrRateLimited
		}
	}

	return nil
}

// ResetLogin clears the failed-login counters for the email+IP pair.
// Called after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, email, ip string) error {
	keys := []string{loginEmailKey(email)}
	if ip != "" {
		keys = append(keys, loginIPKey(ip))
	}

	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count >= int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	pipe := l.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.config.LoginCooldownDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return incr.Val(), nil
}

func loginEmailKey(email string) string {
	return "login:email:" + email
}

func loginIPKey(ip string) string {
	return "login:ip:" + ip
}
