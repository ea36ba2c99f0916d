package redisadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sampark/contexts/voter-outreach/compliance-service/ports"
)

const window = time.Hour

// Limiter counts sends per (organization, channel, window-start-hour) in
// Redis. INCR is atomic server-side, so the increment-and-compare cannot race
// across processes; windows reset by key expiry.
type Limiter struct {
	client *redis.Client
	Clock  ports.Clock
}

func NewLimiter(client *redis.Client, clock ports.Clock) *Limiter {
	return &Limiter{
		client: client,
		Clock:  clock,
	}
}

func (l *Limiter) TryAcquire(ctx context.Context, organizationID string, channel string, limit int64) (bool, error) {
	now := time.Now().UTC()
	if l.Clock != nil {
		now = l.Clock.Now().UTC()
	}
	windowStart := now.Truncate(window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", organizationID, channel, windowStart.Unix())

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		// Keep the key one extra window so a slow clock never expires a live one.
		if err := l.client.Expire(ctx, key, 2*window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= limit, nil
}
