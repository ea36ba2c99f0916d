package gateways

import (
	"context"
	"strings"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

const routeMobileDefaultEndpoint = "https://sms6.rmlconnect.net/bulksms/bulksms"

// RouteMobileGateway is a fallback SMS route.
type RouteMobileGateway struct {
	Username string
	Password string
	Endpoint string
	Client   httpDoer
}

func (g RouteMobileGateway) Channel() entities.Channel {
	return entities.ChannelSMS
}

func (g RouteMobileGateway) Provider() string {
	return "route_mobile"
}

func (g RouteMobileGateway) Send(ctx context.Context, message entities.Message) (ports.SendResult, error) {
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = routeMobileDefaultEndpoint
	}

	payload := map[string]string{
		"username":    g.Username,
		"password":    g.Password,
		"source":      message.Sender,
		"destination": strings.TrimPrefix(message.Recipient, "+"),
		"message":     message.Content,
		"type":        "0",
		"dlr":         "1",
	}

	var response struct {
		Status    string `json:"status"`
		MessageID string `json:"msg_id"`
	}
	if err := postJSON(ctx, g.Client, g.Provider(), endpoint, nil, payload, &response); err != nil {
		return ports.SendResult{}, err
	}

	metadata := map[string]string{"provider": g.Provider()}
	if response.MessageID != "" {
		metadata["provider_message_id"] = response.MessageID
	}
	return ports.SendResult{
		Status:   entities.MessageStatusSent,
		SentAt:   time.Now().UTC(),
		Metadata: metadata,
	}, nil
}
