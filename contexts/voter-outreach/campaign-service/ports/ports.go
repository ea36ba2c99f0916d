package ports

import (
	"context"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
)

type CampaignFilter struct {
	OrganizationID string
	Status         entities.CampaignStatus
	Channel        entities.Channel
}

// CounterDelta is applied atomically to a campaign's aggregate counters.
type CounterDelta struct {
	Sent      int64
	Delivered int64
	Opened    int64
	Replied   int64
	Failed    int64
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	UpdateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID string) error
	// IncrementCounters must be a single atomic update; concurrent dispatch
	// workers increment the same campaign row.
	IncrementCounters(ctx context.Context, campaignID string, delta CounterDelta) error
	ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]entities.Campaign, error)
}

type MessageFilter struct {
	Status entities.MessageStatus
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, message entities.Message) error
	GetMessage(ctx context.Context, messageID string) (entities.Message, error)
	// UpdateMessageStatus enforces forward-only transitions, stamps the
	// matching transition timestamp and merges metadata.
	UpdateMessageStatus(ctx context.Context, messageID string, status entities.MessageStatus, at time.Time, metadata map[string]string) error
	ListMessagesByCampaign(ctx context.Context, campaignID string, filter MessageFilter) ([]entities.Message, error)
	CountMessagesByStatus(ctx context.Context, campaignID string) (map[entities.MessageStatus]int64, error)
}

// VoterRepository is the read-only view onto the voter store. The resolver
// precomputes the date-of-birth window so implementations stay deterministic
// for a fixed snapshot.
type VoterRepository interface {
	FindVoters(ctx context.Context, organizationID string, spec entities.AudienceSpec, window entities.DOBWindow) ([]entities.Voter, error)
	CountVoters(ctx context.Context, organizationID string, spec entities.AudienceSpec, window entities.DOBWindow) (int64, error)
}

type SendResult struct {
	Status   entities.MessageStatus
	SentAt   time.Time
	Cost     float64
	Metadata map[string]string
}

// ChannelGateway performs the actual provider send for one channel variant.
// Implementations return *domainerrors.GatewayError for transport failures
// and never for business-level rejections.
type ChannelGateway interface {
	Send(ctx context.Context, message entities.Message) (SendResult, error)
	Channel() entities.Channel
	Provider() string
}

// GatewayResolver maps (channel, provider) to a registered gateway. Unknown
// pairs fail at registry construction, not at send time.
type GatewayResolver interface {
	Resolve(channel entities.Channel, provider string) (ChannelGateway, error)
}

type OrgChannelConfig struct {
	Enabled       bool
	Provider      string
	Sender        string
	EmbargoExempt bool
}

type OrgConfigProvider interface {
	ChannelConfig(ctx context.Context, organizationID string, channel entities.Channel) (OrgChannelConfig, error)
}

type ComplianceResult struct {
	Passed       bool
	FailedChecks []string
}

type CampaignCheckInput struct {
	OrganizationID   string
	Channel          entities.Channel
	Content          string
	ContentEncrypted bool
	EmbargoExempt    bool
}

type MessageCheckInput struct {
	OrganizationID string
	Channel        entities.Channel
	Content        string
	ConsentGranted bool
}

type ComplianceGate interface {
	CheckCampaign(ctx context.Context, input CampaignCheckInput) (ComplianceResult, error)
	CheckMessage(ctx context.Context, input MessageCheckInput) (ComplianceResult, error)
}

type DispatchJob struct {
	CampaignID string
	Attempt    int
}

type JobPublisher interface {
	PublishDispatch(ctx context.Context, job DispatchJob) error
}

type JobConsumer interface {
	Consume(ctx context.Context, handler func(context.Context, DispatchJob) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
