package memory

import (
	"context"
	"sync"
	"time"

	"sampark/contexts/voter-outreach/compliance-service/ports"
)

// Store serves per-organization policy snapshots from memory. Organizations
// without an override fall back to the default policy.
type Store struct {
	mu        sync.RWMutex
	defaults  ports.Policy
	overrides map[string]ports.Policy
}

func NewStore(defaults ports.Policy) *Store {
	return &Store{
		defaults:  defaults,
		overrides: make(map[string]ports.Policy),
	}
}

func (s *Store) SetPolicy(organizationID string, policy ports.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[organizationID] = policy
}

func (s *Store) PolicyFor(_ context.Context, organizationID string) (ports.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if policy, ok := s.overrides[organizationID]; ok {
		return policy, nil
	}
	return s.defaults, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
