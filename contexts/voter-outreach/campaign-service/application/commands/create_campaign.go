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

type CreateCampaignCommand struct {
	OrganizationID   string
	Name             string
	Description      string
	Channel          entities.Channel
	Content          string
	ContentEncrypted bool
	Audience         entities.AudienceSpec
	ScheduledAt      *time.Time
	Settings         entities.Settings
}

type CreateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Resolver  audience.Resolver
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	campaignID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}

	status := entities.CampaignStatusDraft
	if cmd.ScheduledAt != nil {
		if !cmd.ScheduledAt.After(now) {
			return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
		}
		status = entities.CampaignStatusScheduled
	}

	campaign := entities.Campaign{
		CampaignID:       campaignID,
		OrganizationID:   strings.TrimSpace(cmd.OrganizationID),
		Name:             strings.TrimSpace(cmd.Name),
		Description:      strings.TrimSpace(cmd.Description),
		Channel:          cmd.Channel,
		Status:           status,
		Content:          cmd.Content,
		ContentEncrypted: cmd.ContentEncrypted,
		Audience:         cmd.Audience,
		Settings:         cmd.Settings,
		ScheduledAt:      cmd.ScheduledAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if campaign.OrganizationID == "" || !campaign.ValidateBasics() {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}
	if !campaign.Audience.Valid() {
		return entities.Campaign{}, domainerrors.ErrInvalidAudienceSpec
	}

	estimate, err := uc.Resolver.Estimate(ctx, campaign.OrganizationID, campaign.Audience)
	if err != nil {
		return entities.Campaign{}, err
	}
	campaign.TotalRecipients = estimate

	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"organization_id", campaign.OrganizationID,
		"channel", string(campaign.Channel),
		"status", string(campaign.Status),
		"total_recipients", campaign.TotalRecipients,
	)
	return campaign, nil
}
