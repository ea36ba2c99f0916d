package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

func draftCampaign(id, org, name string) entities.Campaign {
	now := time.Now().UTC()
	return entities.Campaign{
		CampaignID:     id,
		OrganizationID: org,
		Name:           name,
		Channel:        entities.ChannelSMS,
		Status:         entities.CampaignStatusDraft,
		Content:        "x",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateCampaignNameUniquePerOrganization(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	if err := store.CreateCampaign(ctx, draftCampaign("c-1", "org-1", "Diwali Greetings")); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.CreateCampaign(ctx, draftCampaign("c-2", "org-1", "diwali greetings"))
	if !errors.Is(err, domainerrors.ErrCampaignNameTaken) {
		t.Fatalf("expected name taken in same org, got %v", err)
	}
	if err := store.CreateCampaign(ctx, draftCampaign("c-3", "org-2", "Diwali Greetings")); err != nil {
		t.Fatalf("same name in another org must be allowed: %v", err)
	}
}

func TestUpdateCampaignPreservesCounters(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	campaign := draftCampaign("c-1", "org-1", "Counters")
	if err := store.CreateCampaign(ctx, campaign); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.IncrementCounters(ctx, "c-1", ports.CounterDelta{Sent: 5, Failed: 2}); err != nil {
		t.Fatalf("increment: %v", err)
	}

	campaign.Name = "Counters renamed"
	campaign.SentCount = 0
	campaign.FailedCount = 0
	if err := store.UpdateCampaign(ctx, campaign); err != nil {
		t.Fatalf("update: %v", err)
	}

	current, err := store.GetCampaign(ctx, "c-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.Name != "Counters renamed" {
		t.Fatalf("expected rename applied, got %q", current.Name)
	}
	if current.SentCount != 5 || current.FailedCount != 2 {
		t.Fatalf("counters must survive an update: sent=%d failed=%d", current.SentCount, current.FailedCount)
	}
}

func TestDeleteCampaignCascadesMessages(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	if err := store.CreateCampaign(ctx, draftCampaign("c-1", "org-1", "Cascade")); err != nil {
		t.Fatalf("create: %v", err)
	}
	now := time.Now().UTC()
	if err := store.CreateMessage(ctx, entities.Message{
		MessageID: "m-1", CampaignID: "c-1", Status: entities.MessageStatusPending, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create message: %v", err)
	}

	if err := store.DeleteCampaign(ctx, "c-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetMessage(ctx, "m-1"); !errors.Is(err, domainerrors.ErrMessageNotFound) {
		t.Fatalf("expected message gone after cascade, got %v", err)
	}
}

func TestUpdateMessageStatusForwardOnly(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.CreateMessage(ctx, entities.Message{
		MessageID: "m-1", CampaignID: "c-1", Status: entities.MessageStatusPending, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create message: %v", err)
	}

	sentAt := now.Add(time.Second)
	if err := store.UpdateMessageStatus(ctx, "m-1", entities.MessageStatusSent, sentAt, map[string]string{"provider": "test"}); err != nil {
		t.Fatalf("to sent: %v", err)
	}
	deliveredAt := now.Add(2 * time.Second)
	if err := store.UpdateMessageStatus(ctx, "m-1", entities.MessageStatusDelivered, deliveredAt, map[string]string{"dlr": "ok"}); err != nil {
		t.Fatalf("to delivered: %v", err)
	}

	err := store.UpdateMessageStatus(ctx, "m-1", entities.MessageStatusSent, now, nil)
	if !errors.Is(err, domainerrors.ErrInvalidMessageStatus) {
		t.Fatalf("expected backward transition rejected, got %v", err)
	}

	message, err := store.GetMessage(ctx, "m-1")
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if message.Status != entities.MessageStatusDelivered {
		t.Fatalf("expected delivered, got %s", message.Status)
	}
	if message.SentAt == nil || !message.SentAt.Equal(sentAt) {
		t.Fatalf("expected sent timestamp %v, got %v", sentAt, message.SentAt)
	}
	if message.DeliveredAt == nil || !message.DeliveredAt.Equal(deliveredAt) {
		t.Fatalf("expected delivered timestamp %v, got %v", deliveredAt, message.DeliveredAt)
	}
	if message.Metadata["provider"] != "test" || message.Metadata["dlr"] != "ok" {
		t.Fatalf("expected merged metadata, got %v", message.Metadata)
	}
}

func TestListDueScheduledOrderAndLimit(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	now := time.Now().UTC()

	times := []time.Time{now.Add(-3 * time.Hour), now.Add(-time.Hour), now.Add(-2 * time.Hour), now.Add(time.Hour)}
	ids := []string{"c-1", "c-2", "c-3", "c-4"}
	for i, id := range ids {
		campaign := draftCampaign(id, "org-1", "Scheduled "+id)
		campaign.Status = entities.CampaignStatusScheduled
		at := times[i]
		campaign.ScheduledAt = &at
		if err := store.CreateCampaign(ctx, campaign); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	due, err := store.ListDueScheduled(ctx, now, 2)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 2 || due[0].CampaignID != "c-1" || due[1].CampaignID != "c-3" {
		t.Fatalf("expected oldest two due campaigns, got %+v", due)
	}
}

func TestFindVotersAppliesSpec(t *testing.T) {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore([]entities.Voter{
		{VoterID: "v-2", OrganizationID: "org-1", Constituency: "Mandya", DateOfBirth: &dob, Tags: []string{"farmer"}},
		{VoterID: "v-1", OrganizationID: "org-1", Constituency: "Mandya", DateOfBirth: &dob, Tags: []string{"farmer"}},
		{VoterID: "v-3", OrganizationID: "org-1", Constituency: "Hassan", DateOfBirth: &dob, Tags: []string{"farmer"}},
		{VoterID: "v-4", OrganizationID: "org-2", Constituency: "Mandya", DateOfBirth: &dob, Tags: []string{"farmer"}},
	})

	spec := entities.AudienceSpec{Constituency: "Mandya", Tags: []string{"farmer"}}
	voters, err := store.FindVoters(context.Background(), "org-1", spec, entities.DOBWindow{})
	if err != nil {
		t.Fatalf("find voters: %v", err)
	}
	if len(voters) != 2 {
		t.Fatalf("expected 2 voters, got %d", len(voters))
	}
	if voters[0].VoterID != "v-1" || voters[1].VoterID != "v-2" {
		t.Fatalf("expected deterministic voter order, got %+v", voters)
	}

	count, err := store.CountVoters(context.Background(), "org-1", spec, entities.DOBWindow{})
	if err != nil {
		t.Fatalf("count voters: %v", err)
	}
	if count != int64(len(voters)) {
		t.Fatalf("count and find must agree: %d vs %d", count, len(voters))
	}
}
