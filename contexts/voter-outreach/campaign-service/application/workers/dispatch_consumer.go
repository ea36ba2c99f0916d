package workers

import (
	"context"
	"errors"
	"log/slog"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	"sampark/contexts/voter-outreach/campaign-service/application/commands"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// DispatchConsumer drains the dispatch queue and runs one campaign dispatch
// per job. Compliance rejections and missing campaigns are recorded on the
// campaign itself, so those jobs must not be redelivered.
type DispatchConsumer struct {
	Queue    ports.JobConsumer
	Dispatch commands.DispatchCampaignUseCase
	Logger   *slog.Logger
}

func (c DispatchConsumer) Run(ctx context.Context) error {
	return c.Queue.Consume(ctx, c.handle)
}

func (c DispatchConsumer) handle(ctx context.Context, job ports.DispatchJob) error {
	logger := application.ResolveLogger(c.Logger)

	report, err := c.Dispatch.Execute(ctx, job.CampaignID)
	if err != nil {
		var complianceErr *domainerrors.ComplianceError
		if errors.As(err, &complianceErr) || errors.Is(err, domainerrors.ErrCampaignNotFound) {
			logger.Warn("dispatch job dropped",
				"event", "dispatch_job_dropped",
				"module", "voter-outreach/campaign-service",
				"layer", "worker",
				"campaign_id", job.CampaignID,
				"attempt", job.Attempt,
				"error", err.Error(),
			)
			return nil
		}
		logger.Error("dispatch job failed",
			"event", "dispatch_job_failed",
			"module", "voter-outreach/campaign-service",
			"layer", "worker",
			"campaign_id", job.CampaignID,
			"attempt", job.Attempt,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("dispatch job completed",
		"event", "dispatch_job_completed",
		"module", "voter-outreach/campaign-service",
		"layer", "worker",
		"campaign_id", job.CampaignID,
		"sent_count", report.Sent,
		"failed_count", report.Failed,
	)
	return nil
}
