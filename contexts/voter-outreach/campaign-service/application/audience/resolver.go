package audience

import (
	"context"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// Resolver turns an audience specification into a concrete voter set.
// Resolve and Estimate agree for a fixed voter snapshot; Estimate may take a
// count-only query path.
type Resolver struct {
	Voters ports.VoterRepository
	Clock  ports.Clock
}

func (r Resolver) Resolve(ctx context.Context, organizationID string, spec entities.AudienceSpec) ([]entities.Voter, error) {
	if !spec.Valid() {
		return nil, domainerrors.ErrInvalidAudienceSpec
	}
	return r.Voters.FindVoters(ctx, organizationID, spec, r.window(spec))
}

func (r Resolver) Estimate(ctx context.Context, organizationID string, spec entities.AudienceSpec) (int64, error) {
	if !spec.Valid() {
		return 0, domainerrors.ErrInvalidAudienceSpec
	}
	return r.Voters.CountVoters(ctx, organizationID, spec, r.window(spec))
}

func (r Resolver) window(spec entities.AudienceSpec) entities.DOBWindow {
	if spec.AgeRange == nil {
		return entities.DOBWindow{}
	}
	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}
	return spec.AgeRange.Window(now)
}
