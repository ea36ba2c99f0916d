package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/application/commands"
	"sampark/contexts/voter-outreach/campaign-service/application/queries"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	httptransport "sampark/contexts/voter-outreach/campaign-service/transport/http"
)

type Handler struct {
	CreateCampaign    commands.CreateCampaignUseCase
	UpdateCampaign    commands.UpdateCampaignUseCase
	DeleteCampaign    commands.DeleteCampaignUseCase
	DuplicateCampaign commands.DuplicateCampaignUseCase
	SendCampaign      commands.SendCampaignUseCase
	StopCampaign      commands.StopCampaignUseCase
	RecordDelivery    commands.RecordDeliveryReportUseCase
	GetCampaign       queries.GetCampaignUseCase
	GetCampaignStats  queries.GetCampaignStatsUseCase
	ListCampaigns     queries.ListCampaignsUseCase
	ListMessages      queries.ListMessagesUseCase
	EstimateAudience  queries.EstimateAudienceUseCase
	Logger            *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	organizationID string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CampaignResponse, error) {
	scheduledAt, err := parseTimestamp(req.ScheduledAt)
	if err != nil {
		return httptransport.CampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	item, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		OrganizationID:   organizationID,
		Name:             req.Name,
		Description:      req.Description,
		Channel:          entities.Channel(req.Channel),
		Content:          req.Content,
		ContentEncrypted: req.ContentEncrypted,
		Audience:         mapAudienceSpec(req.Audience),
		ScheduledAt:      scheduledAt,
		Settings:         mapSettings(req.Settings),
	})
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) UpdateCampaignHandler(
	ctx context.Context,
	campaignID string,
	req httptransport.UpdateCampaignRequest,
) (httptransport.CampaignResponse, error) {
	cmd := commands.UpdateCampaignCommand{
		CampaignID:       campaignID,
		Name:             req.Name,
		Description:      req.Description,
		Content:          req.Content,
		ContentEncrypted: req.ContentEncrypted,
		ClearSchedule:    req.ClearSchedule,
	}
	if req.Channel != nil {
		channel := entities.Channel(*req.Channel)
		cmd.Channel = &channel
	}
	if req.Audience != nil {
		spec := mapAudienceSpec(*req.Audience)
		cmd.Audience = &spec
	}
	if req.ScheduledAt != nil {
		scheduledAt, err := parseTimestamp(*req.ScheduledAt)
		if err != nil {
			return httptransport.CampaignResponse{}, domainerrors.ErrInvalidCampaignInput
		}
		cmd.ScheduledAt = scheduledAt
	}
	if req.Settings != nil {
		settings := mapSettings(*req.Settings)
		cmd.Settings = &settings
	}

	item, err := h.UpdateCampaign.Execute(ctx, cmd)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) DeleteCampaignHandler(ctx context.Context, campaignID string) error {
	return h.DeleteCampaign.Execute(ctx, campaignID)
}

func (h Handler) DuplicateCampaignHandler(ctx context.Context, campaignID string) (httptransport.CampaignResponse, error) {
	item, err := h.DuplicateCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) SendCampaignHandler(ctx context.Context, campaignID string) (httptransport.CampaignResponse, error) {
	item, err := h.SendCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) StopCampaignHandler(ctx context.Context, campaignID string) (httptransport.CampaignResponse, error) {
	item, err := h.StopCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.CampaignResponse, error) {
	item, err := h.GetCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) GetCampaignStatsHandler(ctx context.Context, campaignID string) (httptransport.CampaignStatsResponse, error) {
	stats, err := h.GetCampaignStats.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignStatsResponse{}, err
	}
	byStatus := make(map[string]int64, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	return httptransport.CampaignStatsResponse{
		Campaign: mapCampaign(stats.Campaign),
		ByStatus: byStatus,
	}, nil
}

func (h Handler) ListCampaignsHandler(
	ctx context.Context,
	organizationID string,
	status string,
	channel string,
) (httptransport.ListCampaignsResponse, error) {
	items, err := h.ListCampaigns.Execute(ctx, queries.ListCampaignsQuery{
		OrganizationID: organizationID,
		Status:         entities.CampaignStatus(status),
		Channel:        entities.Channel(channel),
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	result := make([]httptransport.CampaignDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCampaign(item))
	}
	return httptransport.ListCampaignsResponse{Items: result}, nil
}

func (h Handler) ListMessagesHandler(
	ctx context.Context,
	campaignID string,
	status string,
) (httptransport.ListMessagesResponse, error) {
	items, err := h.ListMessages.Execute(ctx, queries.ListMessagesQuery{
		CampaignID: campaignID,
		Status:     entities.MessageStatus(status),
	})
	if err != nil {
		return httptransport.ListMessagesResponse{}, err
	}
	result := make([]httptransport.MessageDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapMessage(item))
	}
	return httptransport.ListMessagesResponse{Items: result}, nil
}

func (h Handler) EstimateAudienceHandler(
	ctx context.Context,
	organizationID string,
	req httptransport.EstimateAudienceRequest,
) (httptransport.EstimateAudienceResponse, error) {
	estimate, err := h.EstimateAudience.Execute(ctx, organizationID, mapAudienceSpec(req.Audience))
	if err != nil {
		return httptransport.EstimateAudienceResponse{}, err
	}
	return httptransport.EstimateAudienceResponse{EstimatedRecipients: estimate}, nil
}

func (h Handler) DeliveryReportHandler(
	ctx context.Context,
	messageID string,
	req httptransport.DeliveryReportRequest,
) (httptransport.MessageResponse, error) {
	reportedAt, err := parseTimestamp(req.ReportedAt)
	if err != nil {
		return httptransport.MessageResponse{}, domainerrors.ErrInvalidMessageStatus
	}
	item, err := h.RecordDelivery.Execute(ctx, commands.RecordDeliveryReportCommand{
		MessageID:  messageID,
		Status:     entities.MessageStatus(req.Status),
		ReportedAt: reportedAt,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: mapMessage(item)}, nil
}

func mapAudienceSpec(dto httptransport.AudienceDTO) entities.AudienceSpec {
	spec := entities.AudienceSpec{
		Constituency: dto.Constituency,
		District:     dto.District,
		State:        dto.State,
		Tags:         append([]string(nil), dto.Tags...),
	}
	if dto.AgeRange != nil {
		spec.AgeRange = &entities.AgeRange{Min: dto.AgeRange.Min, Max: dto.AgeRange.Max}
	}
	return spec
}

func mapSettings(dto httptransport.SettingsDTO) entities.Settings {
	return entities.Settings{
		Priority:   entities.Priority(dto.Priority),
		RetryCount: dto.RetryCount,
		Timeout:    time.Duration(dto.TimeoutMS) * time.Millisecond,
		Timezone:   dto.Timezone,
	}
}

func mapCampaign(item entities.Campaign) httptransport.CampaignDTO {
	result := httptransport.CampaignDTO{
		CampaignID:       item.CampaignID,
		OrganizationID:   item.OrganizationID,
		Name:             item.Name,
		Description:      item.Description,
		Channel:          string(item.Channel),
		Status:           string(item.Status),
		Content:          item.Content,
		ContentEncrypted: item.ContentEncrypted,
		Audience: httptransport.AudienceDTO{
			Constituency: item.Audience.Constituency,
			District:     item.Audience.District,
			State:        item.Audience.State,
			Tags:         append([]string(nil), item.Audience.Tags...),
		},
		Settings: httptransport.SettingsDTO{
			Priority:   string(item.Settings.Priority),
			RetryCount: item.Settings.RetryCount,
			TimeoutMS:  item.Settings.Timeout.Milliseconds(),
			Timezone:   item.Settings.Timezone,
		},
		TotalRecipients: item.TotalRecipients,
		SentCount:       item.SentCount,
		DeliveredCount:  item.DeliveredCount,
		OpenedCount:     item.OpenedCount,
		RepliedCount:    item.RepliedCount,
		FailedCount:     item.FailedCount,
		FailureReason:   item.FailureReason,
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.Format(time.RFC3339),
	}
	if item.Audience.AgeRange != nil {
		result.Audience.AgeRange = &httptransport.AgeRangeDTO{
			Min: item.Audience.AgeRange.Min,
			Max: item.Audience.AgeRange.Max,
		}
	}
	if item.ScheduledAt != nil {
		result.ScheduledAt = item.ScheduledAt.UTC().Format(time.RFC3339)
	}
	if item.StartedAt != nil {
		result.StartedAt = item.StartedAt.UTC().Format(time.RFC3339)
	}
	if item.CompletedAt != nil {
		result.CompletedAt = item.CompletedAt.UTC().Format(time.RFC3339)
	}
	return result
}

func mapMessage(item entities.Message) httptransport.MessageDTO {
	result := httptransport.MessageDTO{
		MessageID:  item.MessageID,
		CampaignID: item.CampaignID,
		VoterID:    item.VoterID,
		Channel:    string(item.Channel),
		Direction:  string(item.Direction),
		Sender:     item.Sender,
		Recipient:  item.Recipient,
		Content:    item.Content,
		Status:     string(item.Status),
		Cost:       item.Cost,
		Metadata:   item.Metadata,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  item.UpdatedAt.Format(time.RFC3339),
	}
	if item.SentAt != nil {
		result.SentAt = item.SentAt.UTC().Format(time.RFC3339)
	}
	if item.DeliveredAt != nil {
		result.DeliveredAt = item.DeliveredAt.UTC().Format(time.RFC3339)
	}
	if item.ReadAt != nil {
		result.ReadAt = item.ReadAt.UTC().Format(time.RFC3339)
	}
	if item.RepliedAt != nil {
		result.RepliedAt = item.RepliedAt.UTC().Format(time.RFC3339)
	}
	return result
}

func parseTimestamp(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	utc := parsed.UTC()
	return &utc, nil
}
