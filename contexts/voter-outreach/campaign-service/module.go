package campaignservice

import (
	"log/slog"

	httpadapter "sampark/contexts/voter-outreach/campaign-service/adapters/http"
	"sampark/contexts/voter-outreach/campaign-service/adapters/memory"
	"sampark/contexts/voter-outreach/campaign-service/application/audience"
	"sampark/contexts/voter-outreach/campaign-service/application/commands"
	"sampark/contexts/voter-outreach/campaign-service/application/dispatch"
	"sampark/contexts/voter-outreach/campaign-service/application/queries"
	"sampark/contexts/voter-outreach/campaign-service/application/workers"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	"sampark/contexts/voter-outreach/campaign-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Dispatch commands.DispatchCampaignUseCase
	Send     commands.SendCampaignUseCase
	Sweeper  workers.ScheduledCampaignSweeper
	Tracker  *dispatch.Tracker

	Store *memory.Store
}

type Dependencies struct {
	Campaigns   ports.CampaignRepository
	Messages    ports.MessageRepository
	Voters      ports.VoterRepository
	Gate        ports.ComplianceGate
	Gateways    ports.GatewayResolver
	OrgConfig   ports.OrgConfigProvider
	Queue       ports.JobPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Concurrency int
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	resolver := audience.Resolver{
		Voters: deps.Voters,
		Clock:  deps.Clock,
	}
	tracker := dispatch.NewTracker()

	createCampaign := commands.CreateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Resolver:  resolver,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	updateCampaign := commands.UpdateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Resolver:  resolver,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	deleteCampaign := commands.DeleteCampaignUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	duplicateCampaign := commands.DuplicateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	sendCampaign := commands.SendCampaignUseCase{
		Campaigns: deps.Campaigns,
		Resolver:  resolver,
		Queue:     deps.Queue,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	stopCampaign := commands.StopCampaignUseCase{
		Campaigns: deps.Campaigns,
		Tracker:   tracker,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	recordDelivery := commands.RecordDeliveryReportUseCase{
		Campaigns: deps.Campaigns,
		Messages:  deps.Messages,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	dispatchCampaign := commands.DispatchCampaignUseCase{
		Campaigns:   deps.Campaigns,
		Messages:    deps.Messages,
		Resolver:    resolver,
		Gate:        deps.Gate,
		Gateways:    deps.Gateways,
		OrgConfig:   deps.OrgConfig,
		Tracker:     tracker,
		Clock:       deps.Clock,
		IDGen:       deps.IDGenerator,
		Concurrency: deps.Concurrency,
		Logger:      deps.Logger,
	}

	getCampaign := queries.GetCampaignUseCase{Campaigns: deps.Campaigns}
	getStats := queries.GetCampaignStatsUseCase{
		Campaigns: deps.Campaigns,
		Messages:  deps.Messages,
	}
	listCampaigns := queries.ListCampaignsUseCase{Campaigns: deps.Campaigns}
	listMessages := queries.ListMessagesUseCase{Messages: deps.Messages}
	estimateAudience := queries.EstimateAudienceUseCase{Resolver: resolver}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign:    createCampaign,
			UpdateCampaign:    updateCampaign,
			DeleteCampaign:    deleteCampaign,
			DuplicateCampaign: duplicateCampaign,
			SendCampaign:      sendCampaign,
			StopCampaign:      stopCampaign,
			RecordDelivery:    recordDelivery,
			GetCampaign:       getCampaign,
			GetCampaignStats:  getStats,
			ListCampaigns:     listCampaigns,
			ListMessages:      listMessages,
			EstimateAudience:  estimateAudience,
			Logger:            deps.Logger,
		},
		Dispatch: dispatchCampaign,
		Send:     sendCampaign,
		Sweeper: workers.ScheduledCampaignSweeper{
			Campaigns: deps.Campaigns,
			Send:      sendCampaign,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		Tracker: tracker,
	}
}

// InMemoryOptions seeds the in-memory module used by tests and local runs.
type InMemoryOptions struct {
	Voters    []entities.Voter
	Gate      ports.ComplianceGate
	Gateways  ports.GatewayResolver
	OrgConfig ports.OrgConfigProvider
	Queue     ports.JobPublisher
	Logger    *slog.Logger
}

func NewInMemoryModule(opts InMemoryOptions) Module {
	store := memory.NewStore(opts.Voters)
	module := NewModule(Dependencies{
		Campaigns:   store,
		Messages:    store,
		Voters:      store,
		Gate:        opts.Gate,
		Gateways:    opts.Gateways,
		OrgConfig:   opts.OrgConfig,
		Queue:       opts.Queue,
		Clock:       store,
		IDGenerator: store,
		Logger:      opts.Logger,
	})
	module.Store = store
	return module
}
