package commands

import (
	"context"
	"log/slog"
	"strings"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	"sampark/contexts/voter-outreach/campaign-service/application/dispatch"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// StopCampaignUseCase transitions a sending campaign to failed and signals
// the running dispatch to stop before the next recipient. In-flight provider
// calls complete and record their outcome.
type StopCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Tracker   *dispatch.Tracker
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc StopCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.Campaign, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	if campaign.Status != entities.CampaignStatusSending {
		return entities.Campaign{}, domainerrors.ErrInvalidStateTransition
	}

	campaign.Status = entities.CampaignStatusFailed
	campaign.FailureReason = "stopped by operator"
	campaign.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	cancelled := false
	if uc.Tracker != nil {
		cancelled = uc.Tracker.Cancel(campaign.CampaignID)
	}
	application.ResolveLogger(uc.Logger).Info("campaign stopped",
		"event", "campaign_stopped",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"dispatch_cancelled", cancelled,
	)
	return campaign, nil
}
