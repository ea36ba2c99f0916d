package queries

import (
	"context"
	"strings"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type ListMessagesQuery struct {
	CampaignID string
	Status     entities.MessageStatus
}

type ListMessagesUseCase struct {
	Messages ports.MessageRepository
}

func (uc ListMessagesUseCase) Execute(ctx context.Context, query ListMessagesQuery) ([]entities.Message, error) {
	return uc.Messages.ListMessagesByCampaign(ctx, strings.TrimSpace(query.CampaignID), ports.MessageFilter{
		Status: query.Status,
	})
}
