package gateways

import (
	"context"
	"errors"
	"testing"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type fakeGateway struct {
	channel  entities.Channel
	provider string
}

func (g fakeGateway) Channel() entities.Channel { return g.channel }
func (g fakeGateway) Provider() string          { return g.provider }
func (g fakeGateway) Send(_ context.Context, _ entities.Message) (ports.SendResult, error) {
	return ports.SendResult{}, nil
}

func TestRegistryResolve(t *testing.T) {
	registry, err := NewRegistry(
		fakeGateway{channel: entities.ChannelSMS, provider: "msg91"},
		fakeGateway{channel: entities.ChannelSMS, provider: "gupshup"},
		fakeGateway{channel: entities.ChannelVoice, provider: "exotel"},
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	gateway, err := registry.Resolve(entities.ChannelSMS, "MSG91")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if gateway.Provider() != "msg91" {
		t.Fatalf("resolved wrong gateway: %s", gateway.Provider())
	}

	if _, err := registry.Resolve(entities.ChannelEmail, "sendgrid"); !errors.Is(err, domainerrors.ErrUnknownGateway) {
		t.Fatalf("expected unknown gateway, got %v", err)
	}
	if _, err := registry.Resolve(entities.ChannelVoice, "twilio"); !errors.Is(err, domainerrors.ErrUnknownGateway) {
		t.Fatalf("expected unknown provider on known channel, got %v", err)
	}
}

func TestRegistryRejectsBadRegistrations(t *testing.T) {
	if _, err := NewRegistry(
		fakeGateway{channel: entities.ChannelSMS, provider: "msg91"},
		fakeGateway{channel: entities.ChannelSMS, provider: "msg91"},
	); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	if _, err := NewRegistry(fakeGateway{channel: "fax", provider: "acme"}); err == nil {
		t.Fatalf("expected unsupported channel to fail")
	}
}
