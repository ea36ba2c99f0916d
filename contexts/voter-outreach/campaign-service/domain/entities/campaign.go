package entities

import (
	"strings"
	"time"
)

type CampaignStatus string
type Channel string
type Priority string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusFailed    CampaignStatus = "failed"

	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelVoice    Channel = "voice"

	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Settings bound the dispatch loop: RetryCount caps gateway retries per
// recipient, Timeout bounds each provider call.
type Settings struct {
	Priority   Priority
	RetryCount int
	Timeout    time.Duration
	Timezone   string
}

type Campaign struct {
	CampaignID     string
	OrganizationID string
	Name           string
	Description    string
	Channel        Channel
	Status         CampaignStatus
	Content        string
	// ContentEncrypted marks template PII as pre-encrypted/obfuscated, which
	// the compliance gate requires when the content matches PII patterns.
	ContentEncrypted bool
	Audience         AudienceSpec
	Settings         Settings

	TotalRecipients int64
	SentCount       int64
	DeliveredCount  int64
	OpenedCount     int64
	RepliedCount    int64
	FailedCount     int64

	FailureReason string

	ScheduledAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Campaign) CanEdit() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusScheduled
}

func (c Campaign) CanDelete() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusFailed
}

func (c Campaign) CanSend() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusScheduled
}

func (c Campaign) ValidateBasics() bool {
	name := strings.TrimSpace(c.Name)
	content := strings.TrimSpace(c.Content)
	return name != "" &&
		len(name) <= 255 &&
		content != "" &&
		len(content) <= 5000 &&
		IsSupportedChannel(c.Channel) &&
		c.Settings.RetryCount >= 0 &&
		c.Settings.RetryCount <= 5 &&
		IsSupportedPriority(c.Settings.Priority)
}

func IsSupportedChannel(value Channel) bool {
	switch value {
	case ChannelSMS, ChannelWhatsApp, ChannelEmail, ChannelVoice:
		return true
	default:
		return false
	}
}

func IsSupportedPriority(value Priority) bool {
	switch value {
	case "", PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Duplicate returns a draft copy with counters, schedule and lifecycle
// timestamps reset.
func (c Campaign) Duplicate(newID string, now time.Time) Campaign {
	copy := c
	copy.CampaignID = newID
	copy.Name = c.Name + " (Copy)"
	copy.Status = CampaignStatusDraft
	copy.TotalRecipients = 0
	copy.SentCount = 0
	copy.DeliveredCount = 0
	copy.OpenedCount = 0
	copy.RepliedCount = 0
	copy.FailedCount = 0
	copy.FailureReason = ""
	copy.ScheduledAt = nil
	copy.StartedAt = nil
	copy.CompletedAt = nil
	copy.CreatedAt = now
	copy.UpdatedAt = now
	return copy
}
