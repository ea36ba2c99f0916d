package queries

import (
	"context"
	"strings"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
}

func (uc GetCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.Campaign, error) {
	return uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
}

// CampaignStats joins the campaign's aggregate counters with a live breakdown
// of its message statuses.
type CampaignStats struct {
	Campaign entities.Campaign
	ByStatus map[entities.MessageStatus]int64
}

type GetCampaignStatsUseCase struct {
	Campaigns ports.CampaignRepository
	Messages  ports.MessageRepository
}

func (uc GetCampaignStatsUseCase) Execute(ctx context.Context, campaignID string) (CampaignStats, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return CampaignStats{}, err
	}
	byStatus, err := uc.Messages.CountMessagesByStatus(ctx, campaign.CampaignID)
	if err != nil {
		return CampaignStats{}, err
	}
	return CampaignStats{Campaign: campaign, ByStatus: byStatus}, nil
}
