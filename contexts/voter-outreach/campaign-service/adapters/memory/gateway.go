package memory

import (
	"context"
	"sync"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// Gateway records sends instead of reaching a provider. It backs the
// in-memory module and dispatch tests; Fail lets a test script failures for
// specific recipients.
type Gateway struct {
	ChannelName  entities.Channel
	ProviderName string

	mu   sync.Mutex
	sent []entities.Message
	fail map[string]error
}

func NewGateway(channel entities.Channel, provider string) *Gateway {
	return &Gateway{
		ChannelName:  channel,
		ProviderName: provider,
		fail:         make(map[string]error),
	}
}

func (g *Gateway) Channel() entities.Channel {
	return g.ChannelName
}

func (g *Gateway) Provider() string {
	return g.ProviderName
}

// Fail makes every send to the recipient return err.
func (g *Gateway) Fail(recipient string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail[recipient] = err
}

func (g *Gateway) Send(ctx context.Context, message entities.Message) (ports.SendResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.SendResult{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err, exists := g.fail[message.Recipient]; exists {
		return ports.SendResult{}, err
	}
	g.sent = append(g.sent, message)
	return ports.SendResult{
		Status:   entities.MessageStatusSent,
		SentAt:   time.Now().UTC(),
		Metadata: map[string]string{"provider": g.ProviderName},
	}, nil
}

// Sent returns a snapshot of everything sent so far.
func (g *Gateway) Sent() []entities.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]entities.Message(nil), g.sent...)
}
