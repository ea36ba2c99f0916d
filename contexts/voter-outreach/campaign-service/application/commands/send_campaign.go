package commands

import (
	"context"
	"log/slog"
	"strings"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	"sampark/contexts/voter-outreach/campaign-service/application/audience"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// SendCampaignUseCase accepts a send request: it gates the lifecycle
// transition, marks the campaign sending and enqueues the dispatch job. The
// caller only ever gets the acknowledgement; dispatch runs in the worker.
type SendCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Resolver  audience.Resolver
	Queue     ports.JobPublisher
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc SendCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	if !campaign.CanSend() {
		return entities.Campaign{}, domainerrors.ErrInvalidStateTransition
	}

	if campaign.TotalRecipients == 0 {
		estimate, err := uc.Resolver.Estimate(ctx, campaign.OrganizationID, campaign.Audience)
		if err != nil {
			return entities.Campaign{}, err
		}
		campaign.TotalRecipients = estimate
	}
	if campaign.TotalRecipients == 0 {
		return entities.Campaign{}, domainerrors.ErrEmptyAudience
	}

	now := uc.Clock.Now().UTC()
	campaign.Status = entities.CampaignStatusSending
	if campaign.StartedAt == nil {
		campaign.StartedAt = &now
	}
	campaign.UpdatedAt = now
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	if err := uc.Queue.PublishDispatch(ctx, ports.DispatchJob{CampaignID: campaign.CampaignID}); err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign sending initiated",
		"event", "campaign_send_initiated",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"organization_id", campaign.OrganizationID,
		"channel", string(campaign.Channel),
		"total_recipients", campaign.TotalRecipients,
	)
	return campaign, nil
}
