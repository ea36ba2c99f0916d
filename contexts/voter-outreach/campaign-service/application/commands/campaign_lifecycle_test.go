package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/adapters/memory"
	"sampark/contexts/voter-outreach/campaign-service/application/audience"
	"sampark/contexts/voter-outreach/campaign-service/application/dispatch"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []ports.DispatchJob
}

func (q *recordingQueue) PublishDispatch(_ context.Context, job ports.DispatchJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Jobs() []ports.DispatchJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]ports.DispatchJob(nil), q.jobs...)
}

type lifecycleFixture struct {
	store  *memory.Store
	queue  *recordingQueue
	create CreateCampaignUseCase
	update UpdateCampaignUseCase
	send   SendCampaignUseCase
	stop   StopCampaignUseCase
	del    DeleteCampaignUseCase
	dup    DuplicateCampaignUseCase
	report RecordDeliveryReportUseCase
}

func newLifecycleFixture(t *testing.T, voters []entities.Voter) lifecycleFixture {
	t.Helper()
	store := memory.NewStore(voters)
	queue := &recordingQueue{}
	resolver := audience.Resolver{Voters: store, Clock: store}
	return lifecycleFixture{
		store:  store,
		queue:  queue,
		create: CreateCampaignUseCase{Campaigns: store, Resolver: resolver, Clock: store, IDGen: store},
		update: UpdateCampaignUseCase{Campaigns: store, Resolver: resolver, Clock: store},
		send:   SendCampaignUseCase{Campaigns: store, Resolver: resolver, Queue: queue, Clock: store},
		stop:   StopCampaignUseCase{Campaigns: store, Tracker: dispatch.NewTracker(), Clock: store},
		del:    DeleteCampaignUseCase{Campaigns: store},
		dup:    DuplicateCampaignUseCase{Campaigns: store, Clock: store, IDGen: store},
		report: RecordDeliveryReportUseCase{Campaigns: store, Messages: store, Clock: store},
	}
}

func validCreateCommand() CreateCampaignCommand {
	return CreateCampaignCommand{
		OrganizationID: "org-1",
		Name:           "Road repair update",
		Channel:        entities.ChannelSMS,
		Content:        "Hello {{name}}, work starts Monday.",
		Audience:       entities.AudienceSpec{Constituency: "Mandya"},
		Settings:       entities.Settings{Priority: entities.PriorityNormal, RetryCount: 2},
	}
}

func TestCreateCampaignDraftAndScheduled(t *testing.T) {
	fx := newLifecycleFixture(t, []entities.Voter{mandyaVoter("v-1", "+919800000001", true)})

	draft, err := fx.create.Execute(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if draft.Status != entities.CampaignStatusDraft {
		t.Fatalf("expected draft, got %s", draft.Status)
	}
	if draft.TotalRecipients != 1 {
		t.Fatalf("expected estimate of 1, got %d", draft.TotalRecipients)
	}

	future := time.Now().UTC().Add(2 * time.Hour)
	cmd := validCreateCommand()
	cmd.Name = "Scheduled update"
	cmd.ScheduledAt = &future
	scheduled, err := fx.create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create scheduled: %v", err)
	}
	if scheduled.Status != entities.CampaignStatusScheduled {
		t.Fatalf("expected scheduled, got %s", scheduled.Status)
	}

	past := time.Now().UTC().Add(-time.Hour)
	cmd = validCreateCommand()
	cmd.Name = "Past schedule"
	cmd.ScheduledAt = &past
	if _, err := fx.create.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidCampaignInput) {
		t.Fatalf("expected invalid input for past schedule, got %v", err)
	}
}

func TestCreateCampaignRejectsDuplicateName(t *testing.T) {
	fx := newLifecycleFixture(t, []entities.Voter{mandyaVoter("v-1", "+919800000001", true)})

	if _, err := fx.create.Execute(context.Background(), validCreateCommand()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	cmd := validCreateCommand()
	cmd.Name = "road repair UPDATE"
	if _, err := fx.create.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrCampaignNameTaken) {
		t.Fatalf("expected name taken, got %v", err)
	}
}

func TestCreateCampaignRejectsEmptyAudienceSpec(t *testing.T) {
	fx := newLifecycleFixture(t, nil)
	cmd := validCreateCommand()
	cmd.Audience = entities.AudienceSpec{}
	if _, err := fx.create.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidAudienceSpec) {
		t.Fatalf("expected invalid audience spec, got %v", err)
	}
}

func TestSendCampaignEnqueuesDispatch(t *testing.T) {
	fx := newLifecycleFixture(t, []entities.Voter{mandyaVoter("v-1", "+919800000001", true)})
	campaign, err := fx.create.Execute(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sent, err := fx.send.Execute(context.Background(), campaign.CampaignID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != entities.CampaignStatusSending {
		t.Fatalf("expected sending, got %s", sent.Status)
	}
	if sent.StartedAt == nil {
		t.Fatalf("expected started timestamp")
	}
	jobs := fx.queue.Jobs()
	if len(jobs) != 1 || jobs[0].CampaignID != campaign.CampaignID {
		t.Fatalf("expected one dispatch job, got %+v", jobs)
	}

	if _, err := fx.send.Execute(context.Background(), campaign.CampaignID); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition for second send, got %v", err)
	}
}

func TestSendCampaignEmptyAudience(t *testing.T) {
	fx := newLifecycleFixture(t, nil)
	campaign, err := fx.create.Execute(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.send.Execute(context.Background(), campaign.CampaignID); !errors.Is(err, domainerrors.ErrEmptyAudience) {
		t.Fatalf("expected empty audience, got %v", err)
	}
}

func TestUpdateCampaignOnlyWhileEditable(t *testing.T) {
	fx := newLifecycleFixture(t, []entities.Voter{mandyaVoter("v-1", "+919800000001", true)})
	campaign, err := fx.create.Execute(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Road repair, phase two"
	updated, err := fx.update.Execute(context.Background(), UpdateCampaignCommand{
		CampaignID: campaign.CampaignID,
		Name:       &name,
	})
	if err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected renamed campaign, got %q", updated.Name)
	}
	if updated.Content != campaign.Content {
		t.Fatalf("untouched fields must survive a partial update")
	}

	if _, err := fx.send.Execute(context.Background(), campaign.CampaignID); err != nil {
		t.Fatalf("send: %v", err)
	}
	other := "Too late"
	if _, err := fx.update.Execute(context.Background(), UpdateCampaignCommand{
		CampaignID: campaign.CampaignID,
		Name:       &other,
	}); !errors.Is(err, domainerrors.ErrCampaignNotEditable) {
		t.Fatalf("expected not editable while sending, got %v", err)
	}
}

func TestStopCampaignOnlyWhileSending(t *testing.T) {
	fx := newLifecycleFixture(t, []entities.Voter{mandyaVoter("v-1", "+919800000001", true)})
	campaign, err := fx.create.Execute(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := fx.stop.Execute(context.Background(), campaign.CampaignID); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition stopping a draft, got %v", err)
	}

	if _, err := fx.send.Execute(context.Background(), campaign.CampaignID); err != nil {
		t.Fatalf("send: %v", err)
	}
	stopped, err := fx.stop.Execute(context.Background(), campaign.CampaignID)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.Status != entities.CampaignStatusFailed {
		t.Fatalf("expected failed, got %s", stopped.Status)
	}
	if stopped.FailureReason == "" {
		t.Fatalf("expected a failure reason on operator stop")
	}
}

func TestDeleteCampaignStatusGate(t *testing.T) {
	fx := newLifecycleFixture(t, []entities.Voter{mandyaVoter("v-1", "+919800000001", true)})
	campaign, err := fx.create.Execute(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := fx.send.Execute(context.Background(), campaign.CampaignID); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := fx.del.Execute(context.Background(), campaign.CampaignID); !errors.Is(err, domainerrors.ErrCampaignNotDeletable) {
		t.Fatalf("expected not deletable while sending, got %v", err)
	}

	if _, err := fx.stop.Execute(context.Background(), campaign.CampaignID); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := fx.del.Execute(context.Background(), campaign.CampaignID); err != nil {
		t.Fatalf("delete failed campaign: %v", err)
	}
	if _, err := fx.store.GetCampaign(context.Background(), campaign.CampaignID); !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign gone, got %v", err)
	}
}

func TestDuplicateCampaignProducesFreshDraft(t *testing.T) {
	fx := newLifecycleFixture(t, []entities.Voter{mandyaVoter("v-1", "+919800000001", true)})
	campaign, err := fx.create.Execute(context.Background(), validCreateCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	copy, err := fx.dup.Execute(context.Background(), campaign.CampaignID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if copy.CampaignID == campaign.CampaignID {
		t.Fatalf("expected a new campaign id")
	}
	if copy.Name != campaign.Name+" (Copy)" {
		t.Fatalf("unexpected copy name: %q", copy.Name)
	}
	if copy.Status != entities.CampaignStatusDraft {
		t.Fatalf("expected draft copy, got %s", copy.Status)
	}
}

func TestRecordDeliveryReportAdvancesMessage(t *testing.T) {
	fx := newLifecycleFixture(t, nil)
	now := time.Now().UTC()
	campaign := entities.Campaign{
		CampaignID:     "camp-1",
		OrganizationID: "org-1",
		Name:           "Reports",
		Channel:        entities.ChannelSMS,
		Status:         entities.CampaignStatusSending,
		Content:        "x",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := fx.store.CreateCampaign(context.Background(), campaign); err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	message := entities.Message{
		MessageID:  "msg-1",
		CampaignID: campaign.CampaignID,
		Channel:    entities.ChannelSMS,
		Direction:  entities.DirectionOutbound,
		Status:     entities.MessageStatusSent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := fx.store.CreateMessage(context.Background(), message); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	updated, err := fx.report.Execute(context.Background(), RecordDeliveryReportCommand{
		MessageID: message.MessageID,
		Status:    entities.MessageStatusDelivered,
		Metadata:  map[string]string{"provider_status": "DELIVRD"},
	})
	if err != nil {
		t.Fatalf("record delivery: %v", err)
	}
	if updated.Status != entities.MessageStatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}
	if updated.DeliveredAt == nil {
		t.Fatalf("expected delivered timestamp")
	}
	if updated.Metadata["provider_status"] != "DELIVRD" {
		t.Fatalf("expected merged metadata, got %v", updated.Metadata)
	}

	current, _ := fx.store.GetCampaign(context.Background(), campaign.CampaignID)
	if current.DeliveredCount != 1 {
		t.Fatalf("expected delivered counter bump, got %d", current.DeliveredCount)
	}

	if _, err := fx.report.Execute(context.Background(), RecordDeliveryReportCommand{
		MessageID: message.MessageID,
		Status:    entities.MessageStatusSent,
	}); !errors.Is(err, domainerrors.ErrInvalidMessageStatus) {
		t.Fatalf("expected backward transition rejected, got %v", err)
	}
}

func TestRecordDeliveryReportAdHocMessage(t *testing.T) {
	fx := newLifecycleFixture(t, nil)
	now := time.Now().UTC()
	message := entities.Message{
		MessageID:      "msg-adhoc",
		OrganizationID: "org-1",
		Channel:        entities.ChannelSMS,
		Direction:      entities.DirectionOutbound,
		Status:         entities.MessageStatusSent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := fx.store.CreateMessage(context.Background(), message); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	updated, err := fx.report.Execute(context.Background(), RecordDeliveryReportCommand{
		MessageID: message.MessageID,
		Status:    entities.MessageStatusDelivered,
	})
	if err != nil {
		t.Fatalf("ad-hoc delivery report must not require a campaign: %v", err)
	}
	if updated.Status != entities.MessageStatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}
}
