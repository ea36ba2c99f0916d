package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sampark/contexts/voter-outreach/compliance-service/ports"
)

const window = time.Hour

// Limiter is the in-process fixed-window rate limiter. The check and the
// increment happen under one lock, so concurrent acquires never over-admit.
type Limiter struct {
	mu       sync.Mutex
	counters map[string]int64
	Clock    ports.Clock
}

func NewLimiter(clock ports.Clock) *Limiter {
	return &Limiter{
		counters: make(map[string]int64),
		Clock:    clock,
	}
}

func (l *Limiter) TryAcquire(_ context.Context, organizationID string, channel string, limit int64) (bool, error) {
	now := time.Now().UTC()
	if l.Clock != nil {
		now = l.Clock.Now().UTC()
	}
	windowStart := now.Truncate(window)
	key := fmt.Sprintf("%s|%s|%d", organizationID, channel, windowStart.Unix())

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.counters[key] >= limit {
		return false, nil
	}
	l.counters[key]++

	// Expired windows never get read again; drop them so the map stays small.
	previous := fmt.Sprintf("%s|%s|%d", organizationID, channel, windowStart.Add(-window).Unix())
	delete(l.counters, previous)
	return true, nil
}
