package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	application "sampark/contexts/voter-outreach/campaign-service/application"
	"sampark/contexts/voter-outreach/campaign-service/application/audience"
	"sampark/contexts/voter-outreach/campaign-service/application/dispatch"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

const (
	defaultConcurrency    = 4
	defaultGatewayTimeout = 30 * time.Second
	retryBackoffBase      = 500 * time.Millisecond
)

// DispatchCampaignUseCase drives one campaign through the full send
// algorithm: campaign-level gate, audience resolution, then per-recipient
// personalize / gate / gateway with failures isolated per recipient.
type DispatchCampaignUseCase struct {
	Campaigns   ports.CampaignRepository
	Messages    ports.MessageRepository
	Resolver    audience.Resolver
	Gate        ports.ComplianceGate
	Gateways    ports.GatewayResolver
	OrgConfig   ports.OrgConfigProvider
	Tracker     *dispatch.Tracker
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Concurrency int
	Logger      *slog.Logger
}

func (uc DispatchCampaignUseCase) Execute(ctx context.Context, campaignID string) (dispatch.Report, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return dispatch.Report{}, err
	}
	if campaign.Status != entities.CampaignStatusSending {
		logger.Warn("dispatch skipped, campaign not in sending state",
			"event", "campaign_dispatch_skipped",
			"module", "voter-outreach/campaign-service",
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"status", string(campaign.Status),
		)
		return dispatch.Report{}, nil
	}

	task, started := uc.Tracker.Begin(ctx, campaign.CampaignID)
	if !started {
		logger.Warn("dispatch already running",
			"event", "campaign_dispatch_duplicate",
			"module", "voter-outreach/campaign-service",
			"layer", "application",
			"campaign_id", campaign.CampaignID,
		)
		return dispatch.Report{}, nil
	}

	report, err := uc.run(task.Context(), campaign)
	uc.Tracker.Finish(task, report, err)
	return report, err
}

func (uc DispatchCampaignUseCase) run(ctx context.Context, campaign entities.Campaign) (dispatch.Report, error) {
	logger := application.ResolveLogger(uc.Logger)

	channelCfg, err := uc.OrgConfig.ChannelConfig(ctx, campaign.OrganizationID, campaign.Channel)
	if err != nil {
		return dispatch.Report{}, uc.failCampaign(ctx, campaign, err.Error())
	}
	if !channelCfg.Enabled {
		reason := fmt.Sprintf("channel %s is not enabled for organization", campaign.Channel)
		return dispatch.Report{Errors: []string{reason}}, uc.failCampaign(ctx, campaign, reason)
	}
	gateway, err := uc.Gateways.Resolve(campaign.Channel, channelCfg.Provider)
	if err != nil {
		return dispatch.Report{}, uc.failCampaign(ctx, campaign, err.Error())
	}

	gateResult, err := uc.Gate.CheckCampaign(ctx, ports.CampaignCheckInput{
		OrganizationID:   campaign.OrganizationID,
		Channel:          campaign.Channel,
		Content:          campaign.Content,
		ContentEncrypted: campaign.ContentEncrypted,
		EmbargoExempt:    channelCfg.EmbargoExempt,
	})
	if err != nil {
		return dispatch.Report{}, uc.failCampaign(ctx, campaign, err.Error())
	}
	if !gateResult.Passed {
		reason := strings.Join(gateResult.FailedChecks, ", ")
		if err := uc.failCampaign(ctx, campaign, reason); err != nil {
			return dispatch.Report{}, err
		}
		return dispatch.Report{Errors: gateResult.FailedChecks},
			&domainerrors.ComplianceError{Reasons: gateResult.FailedChecks}
	}

	voters, err := uc.Resolver.Resolve(ctx, campaign.OrganizationID, campaign.Audience)
	if err != nil {
		return dispatch.Report{}, uc.failCampaign(ctx, campaign, err.Error())
	}

	campaign.TotalRecipients = int64(len(voters))
	campaign.UpdatedAt = uc.now()
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return dispatch.Report{}, err
	}

	var sent, failed atomic.Int64
	var mu sync.Mutex
	var failures []string

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.concurrency())
	// Cancellation gates recipient admission only. A recipient already handed
	// to a worker runs on a detached context so its in-flight gateway call
	// completes and its outcome is recorded even after an operator stop.
	recipientCtx := context.WithoutCancel(groupCtx)
	for _, voter := range voters {
		voter := voter
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			outcome := uc.dispatchRecipient(recipientCtx, campaign, voter, gateway, channelCfg.Sender)
			if outcome.sent {
				sent.Add(1)
			} else {
				failed.Add(1)
				mu.Lock()
				failures = append(failures, outcome.reason)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	report := dispatch.Report{
		Total:  campaign.TotalRecipients,
		Sent:   sent.Load(),
		Failed: failed.Load(),
		Errors: failures,
	}

	// The operator may have stopped the campaign mid-run; only a campaign
	// still in sending completes. Individual recipient failures never change
	// the campaign's outcome classification. The closing reads and writes use
	// the detached context so a stop does not abort the bookkeeping.
	current, err := uc.Campaigns.GetCampaign(recipientCtx, campaign.CampaignID)
	if err != nil {
		return report, err
	}
	if current.Status == entities.CampaignStatusSending {
		now := uc.now()
		current.Status = entities.CampaignStatusCompleted
		if current.CompletedAt == nil {
			current.CompletedAt = &now
		}
		current.UpdatedAt = now
		if err := uc.Campaigns.UpdateCampaign(recipientCtx, current); err != nil {
			return report, err
		}
	}

	logger.Info("campaign dispatch finished",
		"event", "campaign_dispatch_finished",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"total_recipients", report.Total,
		"sent_count", report.Sent,
		"failed_count", report.Failed,
	)
	return report, nil
}

type recipientOutcome struct {
	sent   bool
	reason string
}

func (uc DispatchCampaignUseCase) dispatchRecipient(
	ctx context.Context,
	campaign entities.Campaign,
	voter entities.Voter,
	gateway ports.ChannelGateway,
	sender string,
) recipientOutcome {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	recipient, hasContact := entities.ContactFor(voter, campaign.Channel)
	content := entities.Personalize(campaign.Content, voter)

	messageID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return recipientOutcome{reason: fmt.Sprintf("voter %s: %v", voter.VoterID, err)}
	}
	message := entities.Message{
		MessageID:      messageID,
		OrganizationID: campaign.OrganizationID,
		CampaignID:     campaign.CampaignID,
		VoterID:        voter.VoterID,
		Channel:        campaign.Channel,
		Direction:      entities.DirectionOutbound,
		Sender:         sender,
		Recipient:      recipient,
		Content:        content,
		Status:         entities.MessageStatusPending,
		Metadata: map[string]string{
			"constituency": voter.Constituency,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Messages.CreateMessage(ctx, message); err != nil {
		return recipientOutcome{reason: fmt.Sprintf("voter %s: create message: %v", voter.VoterID, err)}
	}

	if !hasContact {
		return uc.failMessage(ctx, campaign, message, "missing_contact")
	}

	gateResult, err := uc.Gate.CheckMessage(ctx, ports.MessageCheckInput{
		OrganizationID: campaign.OrganizationID,
		Channel:        campaign.Channel,
		Content:        content,
		ConsentGranted: voter.HasConsent(campaign.Channel),
	})
	if err != nil {
		return uc.failMessage(ctx, campaign, message, err.Error())
	}
	if !gateResult.Passed {
		return uc.failMessage(ctx, campaign, message, strings.Join(gateResult.FailedChecks, ", "))
	}

	result, err := uc.sendWithRetry(ctx, campaign.Settings, gateway, message)
	if err != nil {
		return uc.failMessage(ctx, campaign, message, err.Error())
	}

	status := result.Status
	if status == "" || status == entities.MessageStatusPending {
		status = entities.MessageStatusSent
	}
	sentAt := result.SentAt
	if sentAt.IsZero() {
		sentAt = uc.now()
	}
	if err := uc.Messages.UpdateMessageStatus(ctx, message.MessageID, status, sentAt, result.Metadata); err != nil {
		return recipientOutcome{reason: fmt.Sprintf("voter %s: record send: %v", voter.VoterID, err)}
	}

	delta := ports.CounterDelta{Sent: 1}
	if status == entities.MessageStatusDelivered {
		delta.Delivered = 1
	}
	if err := uc.Campaigns.IncrementCounters(ctx, campaign.CampaignID, delta); err != nil {
		logger.Error("campaign counter update failed",
			"event", "campaign_counter_update_failed",
			"module", "voter-outreach/campaign-service",
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"message_id", message.MessageID,
			"error", err.Error(),
		)
	}
	return recipientOutcome{sent: true}
}

func (uc DispatchCampaignUseCase) sendWithRetry(
	ctx context.Context,
	settings entities.Settings,
	gateway ports.ChannelGateway,
	message entities.Message,
) (ports.SendResult, error) {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	attempts := settings.RetryCount + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := retryBackoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return ports.SendResult{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := gateway.Send(attemptCtx, message)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err

		var gatewayErr *domainerrors.GatewayError
		if !errors.As(err, &gatewayErr) || !gatewayErr.Temporary {
			return ports.SendResult{}, err
		}
	}
	return ports.SendResult{}, lastErr
}

func (uc DispatchCampaignUseCase) failMessage(
	ctx context.Context,
	campaign entities.Campaign,
	message entities.Message,
	reason string,
) recipientOutcome {
	logger := application.ResolveLogger(uc.Logger)
	metadata := map[string]string{"error": reason}
	if err := uc.Messages.UpdateMessageStatus(ctx, message.MessageID, entities.MessageStatusFailed, uc.now(), metadata); err != nil {
		logger.Error("message failure record failed",
			"event", "message_failure_record_failed",
			"module", "voter-outreach/campaign-service",
			"layer", "application",
			"message_id", message.MessageID,
			"error", err.Error(),
		)
		return recipientOutcome{reason: fmt.Sprintf("voter %s: %s", message.VoterID, reason)}
	}
	if err := uc.Campaigns.IncrementCounters(ctx, campaign.CampaignID, ports.CounterDelta{Failed: 1}); err != nil {
		logger.Error("campaign counter update failed",
			"event", "campaign_counter_update_failed",
			"module", "voter-outreach/campaign-service",
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"message_id", message.MessageID,
			"error", err.Error(),
		)
	}
	return recipientOutcome{reason: fmt.Sprintf("voter %s: %s", message.VoterID, reason)}
}

func (uc DispatchCampaignUseCase) failCampaign(ctx context.Context, campaign entities.Campaign, reason string) error {
	campaign.Status = entities.CampaignStatusFailed
	campaign.FailureReason = reason
	campaign.UpdatedAt = uc.now()
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Error("campaign dispatch failed",
		"event", "campaign_dispatch_failed",
		"module", "voter-outreach/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"reason", reason,
	)
	return nil
}

func (uc DispatchCampaignUseCase) concurrency() int {
	if uc.Concurrency > 0 {
		return uc.Concurrency
	}
	return defaultConcurrency
}

func (uc DispatchCampaignUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
