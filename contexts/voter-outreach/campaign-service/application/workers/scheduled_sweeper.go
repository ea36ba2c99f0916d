package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	"sampark/contexts/voter-outreach/campaign-service/application/commands"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// ScheduledCampaignSweeper moves scheduled campaigns whose time has come into
// sending and enqueues their dispatch. One campaign failing to start does not
// block the rest of the batch.
type ScheduledCampaignSweeper struct {
	Campaigns ports.CampaignRepository
	Send      commands.SendCampaignUseCase
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (j ScheduledCampaignSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	due, err := j.Campaigns.ListDueScheduled(ctx, now, limit)
	if err != nil {
		logger.Error("scheduled campaign sweep failed",
			"event", "campaign_schedule_sweep_failed",
			"module", "voter-outreach/campaign-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	started := 0
	for _, campaign := range due {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.Send.Execute(ctx, campaign.CampaignID); err != nil {
			// Another instance may have started it in between; that is not a
			// sweep failure.
			if errors.Is(err, domainerrors.ErrInvalidStateTransition) {
				continue
			}
			logger.Error("scheduled campaign start failed",
				"event", "campaign_schedule_start_failed",
				"module", "voter-outreach/campaign-service",
				"layer", "worker",
				"campaign_id", campaign.CampaignID,
				"error", err.Error(),
			)
			continue
		}
		started++
	}

	if started > 0 {
		logger.Info("scheduled campaign sweep completed",
			"event", "campaign_schedule_sweep_completed",
			"module", "voter-outreach/campaign-service",
			"layer", "worker",
			"started_count", started,
		)
	}
	return nil
}
