package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLoginLimit  = 10
	defaultLoginWindow = 15 * time.Minute
)

// LoginLimiter counts login attempts per key in a sliding window backed by a
// sorted set. Key format: login_attempts:<lowercased username>
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewLoginLimiter allows limit attempts per window. Non-positive values fall
// back to 10 attempts per 15 minutes.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = defaultLoginLimit
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow records an attempt and reports whether it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)
	now := l.now().UnixNano()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", strconv.FormatInt(now-l.window.Nanoseconds(), 10))
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now), Member: fmt.Sprintf("%d-%s", now, uuid.NewString())})
	card := pipe.ZCard(ctx, k)
	pipe.Expire(ctx, k, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}
	return card.Val() <= int64(l.limit), nil
}

// Reset clears the attempts recorded for key, typically after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(key string) string {
	return "login_attempts:" + strings.ToLower(key)
}
