package queries

import (
	"context"
	"strings"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type ListCampaignsQuery struct {
	OrganizationID string
	Status         entities.CampaignStatus
	Channel        entities.Channel
}

type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, query ListCampaignsQuery) ([]entities.Campaign, error) {
	return uc.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{
		OrganizationID: strings.TrimSpace(query.OrganizationID),
		Status:         query.Status,
		Channel:        query.Channel,
	})
}
