package unit

import (
	"context"
	"errors"
	"testing"

	campaignservice "sampark/contexts/voter-outreach/campaign-service"
	"sampark/contexts/voter-outreach/campaign-service/adapters/gateways"
	campaignmemory "sampark/contexts/voter-outreach/campaign-service/adapters/memory"
	complianceadapter "sampark/contexts/voter-outreach/campaign-service/adapters/compliance"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	domainerrors "sampark/contexts/voter-outreach/campaign-service/domain/errors"
	"sampark/contexts/voter-outreach/campaign-service/ports"
	httptransport "sampark/contexts/voter-outreach/campaign-service/transport/http"
	complianceservice "sampark/contexts/voter-outreach/compliance-service"
	complianceports "sampark/contexts/voter-outreach/compliance-service/ports"
	"sampark/internal/platform/queue"
)

// buildModule wires the campaign service against the real compliance service
// and an in-memory gateway, the same shape the worker runs in production.
func buildModule(t *testing.T, voters []entities.Voter) (campaignservice.Module, *campaignmemory.Gateway) {
	t.Helper()

	gateway := campaignmemory.NewGateway(entities.ChannelSMS, "test")
	registry, err := gateways.NewRegistry(gateway)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	compliance := complianceservice.NewInMemoryModule(complianceports.DefaultPolicy(), nil)
	module := campaignservice.NewInMemoryModule(campaignservice.InMemoryOptions{
		Voters:   voters,
		Gate:     complianceadapter.Gate{Service: compliance.Service},
		Gateways: registry,
		OrgConfig: campaignmemory.NewOrgConfigStore(map[entities.Channel]ports.OrgChannelConfig{
			entities.ChannelSMS: {Enabled: true, Provider: "test", Sender: "SAMPRK"},
		}),
		Queue: queue.NewMemory(8),
	})
	return module, gateway
}

func consentingVoter(id, phone string) entities.Voter {
	return entities.Voter{
		VoterID:        id,
		OrganizationID: "org-1",
		Name:           "Voter " + id,
		Phone:          phone,
		Constituency:   "Mandya",
		Consent:        map[entities.Channel]bool{entities.ChannelSMS: true},
	}
}

func TestCampaignSendThroughComplianceService(t *testing.T) {
	module, gateway := buildModule(t, []entities.Voter{
		consentingVoter("v-1", "+919800000001"),
		consentingVoter("v-2", "+919800000002"),
	})

	created, err := module.Handler.CreateCampaignHandler(context.Background(), "org-1", httptransport.CreateCampaignRequest{
		Name:     "Ward meeting reminder",
		Channel:  "sms",
		Content:  "Namaste {{name}}, ward sabha this Sunday at 10am.",
		Audience: httptransport.AudienceDTO{Constituency: "Mandya"},
		Settings: httptransport.SettingsDTO{Priority: "normal", RetryCount: 1},
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	if _, err := module.Handler.SendCampaignHandler(context.Background(), created.Campaign.CampaignID); err != nil {
		t.Fatalf("send campaign failed: %v", err)
	}
	report, err := module.Dispatch.Execute(context.Background(), created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if report.Sent != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(gateway.Sent()) != 2 {
		t.Fatalf("expected 2 provider sends, got %d", len(gateway.Sent()))
	}

	stats, err := module.Handler.GetCampaignStatsHandler(context.Background(), created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Campaign.Status != "completed" || stats.Campaign.SentCount != 2 {
		t.Fatalf("unexpected stats: %+v", stats.Campaign)
	}
}

func TestCampaignBlockedByRestrictedContent(t *testing.T) {
	module, gateway := buildModule(t, []entities.Voter{consentingVoter("v-1", "+919800000001")})

	created, err := module.Handler.CreateCampaignHandler(context.Background(), "org-1", httptransport.CreateCampaignRequest{
		Name:     "Blocked words",
		Channel:  "sms",
		Content:  "Vote for our candidate this week",
		Audience: httptransport.AudienceDTO{Constituency: "Mandya"},
		Settings: httptransport.SettingsDTO{Priority: "normal"},
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	if _, err := module.Handler.SendCampaignHandler(context.Background(), created.Campaign.CampaignID); err != nil {
		t.Fatalf("send campaign failed: %v", err)
	}

	_, err = module.Dispatch.Execute(context.Background(), created.Campaign.CampaignID)
	if err == nil {
		t.Fatalf("expected compliance rejection")
	}

	current, err := module.Handler.GetCampaignHandler(context.Background(), created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if current.Campaign.Status != "failed" {
		t.Fatalf("expected failed campaign, got %s", current.Campaign.Status)
	}
	if len(gateway.Sent()) != 0 {
		t.Fatalf("expected no sends for a blocked campaign")
	}
}

func TestCampaignDeleteOnlyDraftOrFailed(t *testing.T) {
	module, _ := buildModule(t, []entities.Voter{consentingVoter("v-1", "+919800000001")})

	created, err := module.Handler.CreateCampaignHandler(context.Background(), "org-1", httptransport.CreateCampaignRequest{
		Name:     "Delete rules",
		Channel:  "sms",
		Content:  "Namaste {{name}}",
		Audience: httptransport.AudienceDTO{Constituency: "Mandya"},
		Settings: httptransport.SettingsDTO{Priority: "normal"},
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	if _, err := module.Handler.SendCampaignHandler(context.Background(), created.Campaign.CampaignID); err != nil {
		t.Fatalf("send campaign failed: %v", err)
	}

	err = module.Handler.DeleteCampaignHandler(context.Background(), created.Campaign.CampaignID)
	if !errors.Is(err, domainerrors.ErrCampaignNotDeletable) {
		t.Fatalf("expected not deletable while sending, got %v", err)
	}

	if _, err := module.Handler.StopCampaignHandler(context.Background(), created.Campaign.CampaignID); err != nil {
		t.Fatalf("stop campaign failed: %v", err)
	}
	if err := module.Handler.DeleteCampaignHandler(context.Background(), created.Campaign.CampaignID); err != nil {
		t.Fatalf("delete failed campaign: %v", err)
	}
}
