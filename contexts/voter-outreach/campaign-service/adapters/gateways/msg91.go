package gateways

import (
	"context"
	"strings"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

const msg91DefaultEndpoint = "https://control.msg91.com/api/v5/flow/"

// MSG91Gateway sends transactional SMS through the MSG91 flow API. DLT
// compliance requires the template and entity IDs registered for the sender.
type MSG91Gateway struct {
	AuthKey    string
	TemplateID string
	EntityID   string
	Endpoint   string
	Client     httpDoer
}

func (g MSG91Gateway) Channel() entities.Channel {
	return entities.ChannelSMS
}

func (g MSG91Gateway) Provider() string {
	return "msg91"
}

func (g MSG91Gateway) Send(ctx context.Context, message entities.Message) (ports.SendResult, error) {
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = msg91DefaultEndpoint
	}

	payload := map[string]any{
		"template_id": g.TemplateID,
		"sender":      message.Sender,
		"recipients": []map[string]any{
			{
				"mobiles": strings.TrimPrefix(message.Recipient, "+"),
				"body":    message.Content,
			},
		},
	}
	var response struct {
		Type      string `json:"type"`
		RequestID string `json:"request_id"`
	}
	headers := map[string]string{"authkey": g.AuthKey}
	if err := postJSON(ctx, g.Client, g.Provider(), endpoint, headers, payload, &response); err != nil {
		return ports.SendResult{}, err
	}

	metadata := map[string]string{"provider": g.Provider()}
	if response.RequestID != "" {
		metadata["provider_message_id"] = response.RequestID
	}
	if g.EntityID != "" {
		metadata["dlt_entity_id"] = g.EntityID
	}
	return ports.SendResult{
		Status:   entities.MessageStatusSent,
		SentAt:   time.Now().UTC(),
		Metadata: metadata,
	}, nil
}
