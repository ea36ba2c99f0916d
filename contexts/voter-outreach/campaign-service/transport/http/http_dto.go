package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AgeRangeDTO struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

type AudienceDTO struct {
	Constituency string       `json:"constituency,omitempty"`
	District     string       `json:"district,omitempty"`
	State        string       `json:"state,omitempty"`
	AgeRange     *AgeRangeDTO `json:"age_range,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
}

type SettingsDTO struct {
	Priority   string `json:"priority,omitempty"`
	RetryCount int    `json:"retry_count"`
	TimeoutMS  int64  `json:"timeout_ms,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
}

type CreateCampaignRequest struct {
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Channel          string      `json:"channel"`
	Content          string      `json:"content"`
	ContentEncrypted bool        `json:"content_encrypted"`
	Audience         AudienceDTO `json:"audience"`
	ScheduledAt      string      `json:"scheduled_at,omitempty"`
	Settings         SettingsDTO `json:"settings"`
}

type UpdateCampaignRequest struct {
	Name             *string      `json:"name"`
	Description      *string      `json:"description"`
	Channel          *string      `json:"channel"`
	Content          *string      `json:"content"`
	ContentEncrypted *bool        `json:"content_encrypted"`
	Audience         *AudienceDTO `json:"audience"`
	ScheduledAt      *string      `json:"scheduled_at"`
	ClearSchedule    bool         `json:"clear_schedule"`
	Settings         *SettingsDTO `json:"settings"`
}

type EstimateAudienceRequest struct {
	Audience AudienceDTO `json:"audience"`
}

type EstimateAudienceResponse struct {
	EstimatedRecipients int64 `json:"estimated_recipients"`
}

type DeliveryReportRequest struct {
	Status     string            `json:"status"`
	ReportedAt string            `json:"reported_at,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type CampaignDTO struct {
	CampaignID       string      `json:"campaign_id"`
	OrganizationID   string      `json:"organization_id"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	Channel          string      `json:"channel"`
	Status           string      `json:"status"`
	Content          string      `json:"content"`
	ContentEncrypted bool        `json:"content_encrypted"`
	Audience         AudienceDTO `json:"audience"`
	Settings         SettingsDTO `json:"settings"`
	TotalRecipients  int64       `json:"total_recipients"`
	SentCount        int64       `json:"sent_count"`
	DeliveredCount   int64       `json:"delivered_count"`
	OpenedCount      int64       `json:"opened_count"`
	RepliedCount     int64       `json:"replied_count"`
	FailedCount      int64       `json:"failed_count"`
	FailureReason    string      `json:"failure_reason,omitempty"`
	ScheduledAt      string      `json:"scheduled_at,omitempty"`
	StartedAt        string      `json:"started_at,omitempty"`
	CompletedAt      string      `json:"completed_at,omitempty"`
	CreatedAt        string      `json:"created_at"`
	UpdatedAt        string      `json:"updated_at"`
}

type MessageDTO struct {
	MessageID   string            `json:"message_id"`
	CampaignID  string            `json:"campaign_id"`
	VoterID     string            `json:"voter_id"`
	Channel     string            `json:"channel"`
	Direction   string            `json:"direction"`
	Sender      string            `json:"sender,omitempty"`
	Recipient   string            `json:"recipient"`
	Content     string            `json:"content"`
	Status      string            `json:"status"`
	Cost        float64           `json:"cost,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	SentAt      string            `json:"sent_at,omitempty"`
	DeliveredAt string            `json:"delivered_at,omitempty"`
	ReadAt      string            `json:"read_at,omitempty"`
	RepliedAt   string            `json:"replied_at,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type CampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}

type CampaignStatsResponse struct {
	Campaign CampaignDTO      `json:"campaign"`
	ByStatus map[string]int64 `json:"by_status"`
}

type ListMessagesResponse struct {
	Items []MessageDTO `json:"items"`
}

type MessageResponse struct {
	Message MessageDTO `json:"message"`
}
