package queries

import (
	"context"
	"strings"

	"sampark/contexts/voter-outreach/campaign-service/application/audience"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
)

// EstimateAudienceUseCase sizes an audience spec without creating a campaign,
// so operators can tune targeting before committing.
type EstimateAudienceUseCase struct {
	Resolver audience.Resolver
}

func (uc EstimateAudienceUseCase) Execute(ctx context.Context, organizationID string, spec entities.AudienceSpec) (int64, error) {
	return uc.Resolver.Estimate(ctx, strings.TrimSpace(organizationID), spec)
}
