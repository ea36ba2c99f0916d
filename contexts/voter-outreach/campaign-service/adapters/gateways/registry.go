package gateways

import (
	"fmt"
	"strings"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// Registry maps (channel, provider) pairs to gateways. Registration happens
// once at startup; an unknown or duplicate pair fails construction so a
// misconfigured deployment never reaches dispatch.
type Registry struct {
	gateways map[string]ports.ChannelGateway
}

func NewRegistry(gateways ...ports.ChannelGateway) (*Registry, error) {
	registry := &Registry{gateways: make(map[string]ports.ChannelGateway, len(gateways))}
	for _, gateway := range gateways {
		if !entities.IsSupportedChannel(gateway.Channel()) {
			return nil, fmt.Errorf("gateway %s registered for unsupported channel %s", gateway.Provider(), gateway.Channel())
		}
		key := registryKey(gateway.Channel(), gateway.Provider())
		if _, exists := registry.gateways[key]; exists {
			return nil, fmt.Errorf("duplicate gateway registration for %s/%s", gateway.Channel(), gateway.Provider())
		}
		registry.gateways[key] = gateway
	}
	return registry, nil
}

func (r *Registry) Resolve(channel entities.Channel, provider string) (ports.ChannelGateway, error) {
	gateway, exists := r.gateways[registryKey(channel, provider)]
	if !exists {
		return nil, fmt.Errorf("%w: %s/%s", domainerrors.ErrUnknownGateway, channel, provider)
	}
	return gateway, nil
}

func registryKey(channel entities.Channel, provider string) string {
	return string(channel) + "/" + strings.ToLower(strings.TrimSpace(provider))
}
