package ports

import (
	"context"
	"time"
)

// TemplateRegistration holds the regulator-issued identifiers a regulated
// channel must carry before campaign content may go out.
type TemplateRegistration struct {
	TemplateID string
	EntityID   string
}

type EmbargoPeriod struct {
	Start time.Time
	End   time.Time
}

// Policy is the immutable per-organization compliance snapshot. Resolved once
// per check; no ambient configuration lookup.
type Policy struct {
	RegulatedChannels map[string]TemplateRegistration
	Embargo           *EmbargoPeriod
	RestrictedTerms   []string
	DeniedTerms       []string
	RateLimits        map[string]int64
}

func (p Policy) RateLimit(channel string) int64 {
	if limit, ok := p.RateLimits[channel]; ok {
		return limit
	}
	return 100
}

type PolicyProvider interface {
	PolicyFor(ctx context.Context, organizationID string) (Policy, error)
}

// RateLimiter admits sends into a fixed hourly window per (organization,
// channel). TryAcquire is one atomic increment-and-compare; a false return
// has no admission side effect.
type RateLimiter interface {
	TryAcquire(ctx context.Context, organizationID string, channel string, limit int64) (bool, error)
}

type Clock interface {
	Now() time.Time
}
