package gateways

import (
	"context"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

const sendgridDefaultEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridGateway delivers campaign email. The campaign name doubles as the
// subject line; SendGrid accepts the send with 202 and reports delivery
// asynchronously through webhooks.
type SendGridGateway struct {
	APIKey    string
	FromName  string
	FromEmail string
	Endpoint  string
	Client    httpDoer
}

func (g SendGridGateway) Channel() entities.Channel {
	return entities.ChannelEmail
}

func (g SendGridGateway) Provider() string {
	return "sendgrid"
}

func (g SendGridGateway) Send(ctx context.Context, message entities.Message) (ports.SendResult, error) {
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = sendgridDefaultEndpoint
	}

	fromEmail := g.FromEmail
	if fromEmail == "" {
		fromEmail = message.Sender
	}
	subject := message.Metadata["subject"]
	if subject == "" {
		subject = "Update from your representative"
	}

	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": message.Recipient}}},
		},
		"from": map[string]string{
			"email": fromEmail,
			"name":  g.FromName,
		},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": message.Content},
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + g.APIKey}
	if err := postJSON(ctx, g.Client, g.Provider(), endpoint, headers, payload, nil); err != nil {
		return ports.SendResult{}, err
	}

	return ports.SendResult{
		Status:   entities.MessageStatusSent,
		SentAt:   time.Now().UTC(),
		Metadata: map[string]string{"provider": g.Provider()},
	}, nil
}
