package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// OrgConfigStore holds per-organization channel configuration. Organizations
// without an explicit entry fall back to the defaults supplied at build time.
type OrgConfigStore struct {
	mu       sync.RWMutex
	defaults map[entities.Channel]ports.OrgChannelConfig
	byOrg    map[string]map[entities.Channel]ports.OrgChannelConfig
}

func NewOrgConfigStore(defaults map[entities.Channel]ports.OrgChannelConfig) *OrgConfigStore {
	if defaults == nil {
		defaults = make(map[entities.Channel]ports.OrgChannelConfig)
	}
	return &OrgConfigStore{
		defaults: defaults,
		byOrg:    make(map[string]map[entities.Channel]ports.OrgChannelConfig),
	}
}

func (s *OrgConfigStore) SetChannelConfig(organizationID string, channel entities.Channel, config ports.OrgChannelConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	org := strings.TrimSpace(organizationID)
	if s.byOrg[org] == nil {
		s.byOrg[org] = make(map[entities.Channel]ports.OrgChannelConfig)
	}
	s.byOrg[org][channel] = config
}

func (s *OrgConfigStore) ChannelConfig(_ context.Context, organizationID string, channel entities.Channel) (ports.OrgChannelConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if configs, exists := s.byOrg[strings.TrimSpace(organizationID)]; exists {
		if config, exists := configs[channel]; exists {
			return config, nil
		}
	}
	if config, exists := s.defaults[channel]; exists {
		return config, nil
	}
	return ports.OrgChannelConfig{}, fmt.Errorf("no channel configuration for %s", channel)
}
