package commands

import (
	"context"
	"log/slog"
	"strings"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type DeleteCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc DeleteCampaignUseCase) Execute(ctx context.Context, campaignID string) error {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return err
	}
	if !campaign.CanDelete() {
		return domainerrors.ErrCampaignNotDeletable
	}
	if err := uc.Campaigns.DeleteCampaign(ctx, campaign.CampaignID); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Info("campaign deleted",
		"event", "campaign_deleted",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"organization_id", campaign.OrganizationID,
	)
	return nil
}
