package commands

import (
	"context"
	"log/slog"
	"strings"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type DuplicateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc DuplicateCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.Campaign, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return entities.Campaign{}, err
	}

	newID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}
	duplicate := campaign.Duplicate(newID, uc.Clock.Now().UTC())
	if err := uc.Campaigns.CreateCampaign(ctx, duplicate); err != nil {
		return entities.Campaign{}, err
	}

	application.ResolveLogger(uc.Logger).Info("campaign duplicated",
		"event", "campaign_duplicated",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"duplicate_campaign_id", duplicate.CampaignID,
	)
	return duplicate, nil
}
