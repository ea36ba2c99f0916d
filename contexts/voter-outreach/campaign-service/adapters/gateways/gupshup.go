package gateways

import (
	"context"
	"net/url"
	"strings"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

const gupshupDefaultEndpoint = "https://api.gupshup.io/sm/api/v1/msg"

// GupshupGateway is the alternate SMS route.
type GupshupGateway struct {
	APIKey   string
	AppName  string
	Endpoint string
	Client   httpDoer
}

func (g GupshupGateway) Channel() entities.Channel {
	return entities.ChannelSMS
}

func (g GupshupGateway) Provider() string {
	return "gupshup"
}

func (g GupshupGateway) Send(ctx context.Context, message entities.Message) (ports.SendResult, error) {
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = gupshupDefaultEndpoint
	}

	values := url.Values{}
	values.Set("channel", "sms")
	values.Set("source", message.Sender)
	values.Set("destination", strings.TrimPrefix(message.Recipient, "+"))
	values.Set("message", message.Content)
	values.Set("src.name", g.AppName)

	var response struct {
		Status    string `json:"status"`
		MessageID string `json:"messageId"`
	}
	headers := map[string]string{"apikey": g.APIKey}
	if err := postForm(ctx, g.Client, g.Provider(), endpoint, headers, values, &response); err != nil {
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
