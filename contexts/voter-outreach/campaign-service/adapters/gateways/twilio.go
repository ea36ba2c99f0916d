package gateways

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// TwilioGateway is the alternate voice route. The campaign content is read
// out with Twilio's <Say> verb.
type TwilioGateway struct {
	AccountSID string
	AuthToken  string
	BaseURL    string
	Client     httpDoer
}

func (g TwilioGateway) Channel() entities.Channel {
	return entities.ChannelVoice
}

func (g TwilioGateway) Provider() string {
	return "twilio"
}

func (g TwilioGateway) Send(ctx context.Context, message entities.Message) (ports.SendResult, error) {
	baseURL := g.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", baseURL, g.AccountSID)

	values := url.Values{}
	values.Set("To", message.Recipient)
	values.Set("From", message.Sender)
	values.Set("Twiml", "<Response><Say>"+message.Content+"</Say></Response>")

	var response struct {
		Sid string `json:"sid"`
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(g.AccountSID + ":" + g.AuthToken))
	headers := map[string]string{"Authorization": "Basic " + credentials}
	if err := postForm(ctx, g.Client, g.Provider(), endpoint, headers, values, &response); err != nil {
		return ports.SendResult{}, err
	}

	metadata := map[string]string{"provider": g.Provider()}
	if response.Sid != "" {
		metadata["provider_call_sid"] = response.Sid
	}
	return ports.SendResult{
		Status:   entities.MessageStatusSent,
		SentAt:   time.Now().UTC(),
		Metadata: metadata,
	}, nil
}
