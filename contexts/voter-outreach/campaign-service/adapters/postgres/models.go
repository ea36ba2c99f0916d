package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
)

type campaignModel struct {
	CampaignID       string `gorm:"column:campaign_id;primaryKey"`
	OrganizationID   string `gorm:"column:organization_id"`
	Name             string `gorm:"column:name"`
	Description      string `gorm:"column:description"`
	Channel          string `gorm:"column:channel"`
	Status           string `gorm:"column:status"`
	Content          string `gorm:"column:content"`
	ContentEncrypted bool   `gorm:"column:content_encrypted"`

	AudienceConstituency string   `gorm:"column:audience_constituency"`
	AudienceDistrict     string   `gorm:"column:audience_district"`
	AudienceState        string   `gorm:"column:audience_state"`
	AudienceAgeMin       *int     `gorm:"column:audience_age_min"`
	AudienceAgeMax       *int     `gorm:"column:audience_age_max"`
	AudienceTags         []string `gorm:"column:audience_tags;type:text[]"`

	Priority   string `gorm:"column:priority"`
	RetryCount int    `gorm:"column:retry_count"`
	TimeoutMS  int64  `gorm:"column:timeout_ms"`
	Timezone   string `gorm:"column:timezone"`

	TotalRecipients int64 `gorm:"column:total_recipients"`
	SentCount       int64 `gorm:"column:sent_count"`
	DeliveredCount  int64 `gorm:"column:delivered_count"`
	OpenedCount     int64 `gorm:"column:opened_count"`
	RepliedCount    int64 `gorm:"column:replied_count"`
	FailedCount     int64 `gorm:"column:failed_count"`

	FailureReason string `gorm:"column:failure_reason"`

	ScheduledAt *time.Time `gorm:"column:scheduled_at"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) campaignModel {
	row := campaignModel{
		CampaignID:           strings.TrimSpace(item.CampaignID),
		OrganizationID:       strings.TrimSpace(item.OrganizationID),
		Name:                 strings.TrimSpace(item.Name),
		Description:          strings.TrimSpace(item.Description),
		Channel:              string(item.Channel),
		Status:               string(item.Status),
		Content:              item.Content,
		ContentEncrypted:     item.ContentEncrypted,
		AudienceConstituency: strings.TrimSpace(item.Audience.Constituency),
		AudienceDistrict:     strings.TrimSpace(item.Audience.District),
		AudienceState:        strings.TrimSpace(item.Audience.State),
		AudienceTags:         copyOrEmpty(item.Audience.Tags),
		Priority:             string(item.Settings.Priority),
		RetryCount:           item.Settings.RetryCount,
		TimeoutMS:            item.Settings.Timeout.Milliseconds(),
		Timezone:             strings.TrimSpace(item.Settings.Timezone),
		TotalRecipients:      item.TotalRecipients,
		SentCount:            item.SentCount,
		DeliveredCount:       item.DeliveredCount,
		OpenedCount:          item.OpenedCount,
		RepliedCount:         item.RepliedCount,
		FailedCount:          item.FailedCount,
		FailureReason:        strings.TrimSpace(item.FailureReason),
		ScheduledAt:          normalizeOptionalTime(item.ScheduledAt),
		StartedAt:            normalizeOptionalTime(item.StartedAt),
		CompletedAt:          normalizeOptionalTime(item.CompletedAt),
		CreatedAt:            item.CreatedAt.UTC(),
		UpdatedAt:            item.UpdatedAt.UTC(),
	}
	if item.Audience.AgeRange != nil {
		row.AudienceAgeMin = copyOptionalInt(item.Audience.AgeRange.Min)
		row.AudienceAgeMax = copyOptionalInt(item.Audience.AgeRange.Max)
	}
	return row
}

// campaignUpdatesFromEntity deliberately omits the aggregate counters; those
// are owned by IncrementCounters so a stale snapshot never overwrites them.
func campaignUpdatesFromEntity(item entities.Campaign) map[string]any {
	row := campaignModelFromEntity(item)
	return map[string]any{
		"organization_id":       row.OrganizationID,
		"name":                  row.Name,
		"description":           row.Description,
		"channel":               row.Channel,
		"status":                row.Status,
		"content":               row.Content,
		"content_encrypted":     row.ContentEncrypted,
		"audience_constituency": row.AudienceConstituency,
		"audience_district":     row.AudienceDistrict,
		"audience_state":        row.AudienceState,
		"audience_age_min":      row.AudienceAgeMin,
		"audience_age_max":      row.AudienceAgeMax,
		"audience_tags":         row.AudienceTags,
		"priority":              row.Priority,
		"retry_count":           row.RetryCount,
		"timeout_ms":            row.TimeoutMS,
		"timezone":              row.Timezone,
		"total_recipients":      row.TotalRecipients,
		"failure_reason":        row.FailureReason,
		"scheduled_at":          row.ScheduledAt,
		"started_at":            row.StartedAt,
		"completed_at":          row.CompletedAt,
		"updated_at":            row.UpdatedAt,
	}
}

func (m campaignModel) toEntity() entities.Campaign {
	item := entities.Campaign{
		CampaignID:       m.CampaignID,
		OrganizationID:   m.OrganizationID,
		Name:             m.Name,
		Description:      m.Description,
		Channel:          entities.Channel(m.Channel),
		Status:           entities.CampaignStatus(m.Status),
		Content:          m.Content,
		ContentEncrypted: m.ContentEncrypted,
		Audience: entities.AudienceSpec{
			Constituency: m.AudienceConstituency,
			District:     m.AudienceDistrict,
			State:        m.AudienceState,
			Tags:         copyOrEmpty(m.AudienceTags),
		},
		Settings: entities.Settings{
			Priority:   entities.Priority(m.Priority),
			RetryCount: m.RetryCount,
			Timeout:    time.Duration(m.TimeoutMS) * time.Millisecond,
			Timezone:   m.Timezone,
		},
		TotalRecipients: m.TotalRecipients,
		SentCount:       m.SentCount,
		DeliveredCount:  m.DeliveredCount,
		OpenedCount:     m.OpenedCount,
		RepliedCount:    m.RepliedCount,
		FailedCount:     m.FailedCount,
		FailureReason:   m.FailureReason,
		ScheduledAt:     normalizeOptionalTime(m.ScheduledAt),
		StartedAt:       normalizeOptionalTime(m.StartedAt),
		CompletedAt:     normalizeOptionalTime(m.CompletedAt),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
	if m.AudienceAgeMin != nil || m.AudienceAgeMax != nil {
		item.Audience.AgeRange = &entities.AgeRange{
			Min: copyOptionalInt(m.AudienceAgeMin),
			Max: copyOptionalInt(m.AudienceAgeMax),
		}
	}
	return item
}

type messageModel struct {
	MessageID      string  `gorm:"column:message_id;primaryKey"`
	OrganizationID string  `gorm:"column:organization_id"`
	CampaignID     string  `gorm:"column:campaign_id"`
	VoterID        string  `gorm:"column:voter_id"`
	Channel        string  `gorm:"column:channel"`
	Direction      string  `gorm:"column:direction"`
	Sender         string  `gorm:"column:sender"`
	Recipient      string  `gorm:"column:recipient"`
	Content        string  `gorm:"column:content"`
	Status         string  `gorm:"column:status"`
	Cost           float64 `gorm:"column:cost"`
	Metadata       []byte  `gorm:"column:metadata;type:jsonb"`

	SentAt      *time.Time `gorm:"column:sent_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	ReadAt      *time.Time `gorm:"column:read_at"`
	RepliedAt   *time.Time `gorm:"column:replied_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (messageModel) TableName() string {
	return "campaign_messages"
}

func messageModelFromEntity(item entities.Message) messageModel {
	payload, err := marshalMetadata(item.Metadata)
	if err != nil {
		payload = nil
	}
	return messageModel{
		MessageID:      strings.TrimSpace(item.MessageID),
		OrganizationID: strings.TrimSpace(item.OrganizationID),
		CampaignID:     strings.TrimSpace(item.CampaignID),
		VoterID:        strings.TrimSpace(item.VoterID),
		Channel:        string(item.Channel),
		Direction:      string(item.Direction),
		Sender:         strings.TrimSpace(item.Sender),
		Recipient:      strings.TrimSpace(item.Recipient),
		Content:        item.Content,
		Status:         string(item.Status),
		Cost:           item.Cost,
		Metadata:       payload,
		SentAt:         normalizeOptionalTime(item.SentAt),
		DeliveredAt:    normalizeOptionalTime(item.DeliveredAt),
		ReadAt:         normalizeOptionalTime(item.ReadAt),
		RepliedAt:      normalizeOptionalTime(item.RepliedAt),
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (m messageModel) toEntity() entities.Message {
	metadata := map[string]string{}
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return entities.Message{
		MessageID:      m.MessageID,
		OrganizationID: m.OrganizationID,
		CampaignID:     m.CampaignID,
		VoterID:        m.VoterID,
		Channel:        entities.Channel(m.Channel),
		Direction:      entities.Direction(m.Direction),
		Sender:         m.Sender,
		Recipient:      m.Recipient,
		Content:        m.Content,
		Status:         entities.MessageStatus(m.Status),
		Cost:           m.Cost,
		Metadata:       metadata,
		SentAt:         normalizeOptionalTime(m.SentAt),
		DeliveredAt:    normalizeOptionalTime(m.DeliveredAt),
		ReadAt:         normalizeOptionalTime(m.ReadAt),
		RepliedAt:      normalizeOptionalTime(m.RepliedAt),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type voterModel struct {
	VoterID        string     `gorm:"column:voter_id;primaryKey"`
	OrganizationID string     `gorm:"column:organization_id"`
	Name           string     `gorm:"column:name"`
	Phone          string     `gorm:"column:phone"`
	Email          string     `gorm:"column:email"`
	Constituency   string     `gorm:"column:constituency"`
	District       string     `gorm:"column:district"`
	State          string     `gorm:"column:state"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth"`
	Tags           []string   `gorm:"column:tags;type:text[]"`
	Consent        []byte     `gorm:"column:consent;type:jsonb"`
}

func (voterModel) TableName() string {
	return "voters"
}

func (m voterModel) toEntity() entities.Voter {
	consent := map[entities.Channel]bool{}
	if len(m.Consent) > 0 {
		_ = json.Unmarshal(m.Consent, &consent)
	}
	return entities.Voter{
		VoterID:        m.VoterID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Phone:          m.Phone,
		Email:          m.Email,
		Constituency:   m.Constituency,
		District:       m.District,
		State:          m.State,
		DateOfBirth:    normalizeOptionalTime(m.DateOfBirth),
		Tags:           copyOrEmpty(m.Tags),
		Consent:        consent,
	}
}

func marshalMetadata(metadata map[string]string) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	return json.Marshal(metadata)
}

func copyOrEmpty(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	return append([]string(nil), items...)
}

func copyOptionalInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
