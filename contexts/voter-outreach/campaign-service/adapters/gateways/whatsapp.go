package gateways

import (
	"context"
	"strings"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

const whatsappDefaultBaseURL = "https://graph.facebook.com/v18.0"

// WhatsAppGateway sends session messages through the WhatsApp Cloud API
// using the configured business phone number.
type WhatsAppGateway struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	Client        httpDoer
}

func (g WhatsAppGateway) Channel() entities.Channel {
	return entities.ChannelWhatsApp
}

func (g WhatsAppGateway) Provider() string {
	return "whatsapp_cloud"
}

func (g WhatsAppGateway) Send(ctx context.Context, message entities.Message) (ports.SendResult, error) {
	baseURL := g.BaseURL
	if baseURL == "" {
		baseURL = whatsappDefaultBaseURL
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/" + g.PhoneNumberID + "/messages"

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                strings.TrimPrefix(message.Recipient, "+"),
		"type":              "text",
		"text": map[string]any{
			"body": message.Content,
		},
	}
	var response struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	headers := map[string]string{"Authorization": "Bearer " + g.AccessToken}
	if err := postJSON(ctx, g.Client, g.Provider(), endpoint, headers, payload, &response); err != nil {
		return ports.SendResult{}, err
	}

	metadata := map[string]string{"provider": g.Provider()}
	if len(response.Messages) > 0 {
		metadata["provider_message_id"] = response.Messages[0].ID
	}
	return ports.SendResult{
		Status:   entities.MessageStatusSent,
		SentAt:   time.Now().UTC(),
		Metadata: metadata,
	}, nil
}
