package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type RecordDeliveryReportCommand struct {
	MessageID  string
	Status     entities.MessageStatus
	ReportedAt *time.Time
	Metadata   map[string]string
}

// RecordDeliveryReportUseCase applies a provider delivery report to a message
// and bumps the owning campaign's aggregate counters. Reports arrive out of
// order from provider webhooks; backward transitions are rejected.
type RecordDeliveryReportUseCase struct {
	Campaigns ports.CampaignRepository
	Messages  ports.MessageRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc RecordDeliveryReportUseCase) Execute(ctx context.Context, cmd RecordDeliveryReportCommand) (entities.Message, error) {
	logger := application.ResolveLogger(uc.Logger)

	message, err := uc.Messages.GetMessage(ctx, strings.TrimSpace(cmd.MessageID))
	if err != nil {
		return entities.Message{}, err
	}
	if !entities.CanTransition(message.Status, cmd.Status) {
		logger.Warn("delivery report rejected",
			"event", "delivery_report_rejected",
			"module", "voter-outreach/campaign-service",
			"layer", "application",
			"message_id", message.MessageID,
			"from_status", string(message.Status),
			"to_status", string(cmd.Status),
		)
		return entities.Message{}, domainerrors.ErrInvalidMessageStatus
	}

	at := uc.now()
	if cmd.ReportedAt != nil {
		at = cmd.ReportedAt.UTC()
	}
	if err := uc.Messages.UpdateMessageStatus(ctx, message.MessageID, cmd.Status, at, cmd.Metadata); err != nil {
		return entities.Message{}, err
	}

	// Ad-hoc messages carry no campaign reference and have no counters to bump.
	delta := counterDeltaFor(cmd.Status)
	if message.CampaignID != "" && delta != (ports.CounterDelta{}) {
		if err := uc.Campaigns.IncrementCounters(ctx, message.CampaignID, delta); err != nil {
			return entities.Message{}, err
		}
	}

	updated, err := uc.Messages.GetMessage(ctx, message.MessageID)
	if err != nil {
		return entities.Message{}, err
	}
	logger.Info("delivery report recorded",
		"event", "delivery_report_recorded",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"message_id", updated.MessageID,
		"campaign_id", updated.CampaignID,
		"status", string(updated.Status),
	)
	return updated, nil
}

// counterDeltaFor maps a reported status to the campaign counter it feeds.
// sent and failed are counted at dispatch time, not from reports.
func counterDeltaFor(status entities.MessageStatus) ports.CounterDelta {
	switch status {
	case entities.MessageStatusDelivered:
		return ports.CounterDelta{Delivered: 1}
	case entities.MessageStatusRead:
		return ports.CounterDelta{Opened: 1}
	case entities.MessageStatusReplied:
		return ports.CounterDelta{Replied: 1}
	default:
		return ports.CounterDelta{}
	}
}

func (uc RecordDeliveryReportUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
