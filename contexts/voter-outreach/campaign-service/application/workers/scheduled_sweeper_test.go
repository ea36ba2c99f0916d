package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/adapters/memory"
	"sampark/contexts/voter-outreach/campaign-service/application/audience"
	"sampark/contexts/voter-outreach/campaign-service/application/commands"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
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

func TestSweeperStartsDueCampaigns(t *testing.T) {
	store := memory.NewStore([]entities.Voter{
		{VoterID: "v-1", OrganizationID: "org-1", Name: "Asha", Phone: "+919800000001", Constituency: "Mandya"},
	})

	now := time.Now().UTC()
	past := now.Add(-10 * time.Minute)
	future := now.Add(time.Hour)
	campaigns := []entities.Campaign{
		{CampaignID: "due-1", OrganizationID: "org-1", Name: "Due one", Channel: entities.ChannelSMS, Status: entities.CampaignStatusScheduled, Content: "x", Audience: entities.AudienceSpec{Constituency: "Mandya"}, ScheduledAt: &past, CreatedAt: now, UpdatedAt: now},
		{CampaignID: "later-1", OrganizationID: "org-1", Name: "Later", Channel: entities.ChannelSMS, Status: entities.CampaignStatusScheduled, Content: "x", Audience: entities.AudienceSpec{Constituency: "Mandya"}, ScheduledAt: &future, CreatedAt: now, UpdatedAt: now},
		{CampaignID: "draft-1", OrganizationID: "org-1", Name: "Draft", Channel: entities.ChannelSMS, Status: entities.CampaignStatusDraft, Content: "x", Audience: entities.AudienceSpec{Constituency: "Mandya"}, CreatedAt: now, UpdatedAt: now},
	}
	for _, campaign := range campaigns {
		if err := store.CreateCampaign(context.Background(), campaign); err != nil {
			t.Fatalf("seed campaign: %v", err)
		}
	}

	queue := &recordingQueue{}
	sweeper := ScheduledCampaignSweeper{
		Campaigns: store,
		Send: commands.SendCampaignUseCase{
			Campaigns: store,
			Resolver:  audience.Resolver{Voters: store, Clock: store},
			Queue:     queue,
			Clock:     store,
		},
		Clock: store,
	}

	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	due, _ := store.GetCampaign(context.Background(), "due-1")
	if due.Status != entities.CampaignStatusSending {
		t.Fatalf("expected due campaign sending, got %s", due.Status)
	}
	later, _ := store.GetCampaign(context.Background(), "later-1")
	if later.Status != entities.CampaignStatusScheduled {
		t.Fatalf("future campaign must stay scheduled, got %s", later.Status)
	}
	jobs := queue.Jobs()
	if len(jobs) != 1 || jobs[0].CampaignID != "due-1" {
		t.Fatalf("expected one dispatch job for due-1, got %+v", jobs)
	}

	// A second sweep finds nothing due and changes nothing.
	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(queue.Jobs()) != 1 {
		t.Fatalf("expected no extra jobs, got %+v", queue.Jobs())
	}
}
