package complianceadapter

import (
	"context"

	complianceapp "sampark/contexts/voter-outreach/compliance-service/application"

	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// Gate adapts the compliance service to the dispatch core's gate port. The
// services run in-process today; the port boundary keeps a future RPC split
// from touching the dispatch code.
type Gate struct {
	Service complianceapp.Service
}

func (g Gate) CheckCampaign(ctx context.Context, input ports.CampaignCheckInput) (ports.ComplianceResult, error) {
	result, err := g.Service.CheckCampaign(ctx, complianceapp.CampaignCheckInput{
		OrganizationID:   input.OrganizationID,
		Channel:          string(input.Channel),
		Content:          input.Content,
		ContentEncrypted: input.ContentEncrypted,
		EmbargoExempt:    input.EmbargoExempt,
	})
	if err != nil {
		return ports.ComplianceResult{}, err
	}
	return ports.ComplianceResult{Passed: result.Passed, FailedChecks: result.FailedChecks}, nil
}

func (g Gate) CheckMessage(ctx context.Context, input ports.MessageCheckInput) (ports.ComplianceResult, error) {
	result, err := g.Service.CheckMessage(ctx, complianceapp.MessageCheckInput{
		OrganizationID: input.OrganizationID,
		Channel:        string(input.Channel),
		Content:        input.Content,
		ConsentGranted: input.ConsentGranted,
	})
	if err != nil {
		return ports.ComplianceResult{}, err
	}
	return ports.ComplianceResult{Passed: result.Passed, FailedChecks: result.FailedChecks}, nil
}
