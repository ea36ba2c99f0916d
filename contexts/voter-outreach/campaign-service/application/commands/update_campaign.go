package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	"sampark/contexts/voter-outreach/campaign-service/application/audience"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type UpdateCampaignCommand struct {
	CampaignID       string
	Name             *string
	Description      *string
	Channel          *entities.Channel
	Content          *string
	ContentEncrypted *bool
	Audience         *entities.AudienceSpec
	ScheduledAt      *time.Time
	ClearSchedule    bool
	Settings         *entities.Settings
}

type UpdateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Resolver  audience.Resolver
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc UpdateCampaignUseCase) Execute(ctx context.Context, cmd UpdateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	if !campaign.CanEdit() {
		return entities.Campaign{}, domainerrors.ErrCampaignNotEditable
	}

	now := uc.Clock.Now().UTC()
	if cmd.Name != nil {
		campaign.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Description != nil {
		campaign.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Channel != nil {
		campaign.Channel = *cmd.Channel
	}
	if cmd.Content != nil {
		campaign.Content = *cmd.Content
	}
	if cmd.ContentEncrypted != nil {
		campaign.ContentEncrypted = *cmd.ContentEncrypted
	}
	if cmd.Settings != nil {
		campaign.Settings = *cmd.Settings
	}
	if cmd.ClearSchedule {
		campaign.ScheduledAt = nil
		campaign.Status = entities.CampaignStatusDraft
	} else if cmd.ScheduledAt != nil {
		if !cmd.ScheduledAt.After(now) {
			return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
		}
		campaign.ScheduledAt = cmd.ScheduledAt
		campaign.Status = entities.CampaignStatusScheduled
	}
	if !campaign.ValidateBasics() {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}

	if cmd.Audience != nil {
		if !cmd.Audience.Valid() {
			return entities.Campaign{}, domainerrors.ErrInvalidAudienceSpec
		}
		campaign.Audience = *cmd.Audience
		estimate, err := uc.Resolver.Estimate(ctx, campaign.OrganizationID, campaign.Audience)
		if err != nil {
			return entities.Campaign{}, err
		}
		campaign.TotalRecipients = estimate
	}

	campaign.UpdatedAt = now
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign updated",
		"event", "campaign_updated",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"status", string(campaign.Status),
	)
	return campaign, nil
}
