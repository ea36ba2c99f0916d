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

// ExotelGateway places outbound voice calls that play the campaign content
// as a pre-recorded or text-to-speech flow.
type ExotelGateway struct {
	AccountSID string
	APIKey     string
	APIToken   string
	FlowID     string
	BaseURL    string
	Client     httpDoer
}

func (g ExotelGateway) Channel() entities.Channel {
	return entities.ChannelVoice
}

func (g ExotelGateway) Provider() string {
	return "exotel"
}

func (g ExotelGateway) Send(ctx context.Context, message entities.Message) (ports.SendResult, error) {
	baseURL := g.BaseURL
	if baseURL == "" {
		baseURL = "https://api.exotel.com"
	}
	endpoint := fmt.Sprintf("%s/v1/Accounts/%s/Calls/connect.json", baseURL, g.AccountSID)

	values := url.Values{}
	values.Set("From", message.Recipient)
	values.Set("CallerId", message.Sender)
	values.Set("Url", "http://my.exotel.com/"+g.AccountSID+"/exoml/start_voice/"+g.FlowID)

	var response struct {
		Call struct {
			Sid string `json:"Sid"`
		} `json:"Call"`
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(g.APIKey + ":" + g.APIToken))
	headers := map[string]string{"Authorization": "Basic " + credentials}
	if err := postForm(ctx, g.Client, g.Provider(), endpoint, headers, values, &response); err != nil {
		return ports.SendResult{}, err
	}

	metadata := map[string]string{"provider": g.Provider()}
	if response.Call.Sid != "" {
		metadata["provider_call_sid"] = response.Call.Sid
	}
	return ports.SendResult{
		Status:   entities.MessageStatusSent,
		SentAt:   time.Now().UTC(),
		Metadata: metadata,
	}, nil
}
