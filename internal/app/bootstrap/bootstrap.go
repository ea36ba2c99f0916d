package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	campaignservice "sampark/contexts/voter-outreach/campaign-service"
	complianceadapter "sampark/contexts/voter-outreach/campaign-service/adapters/compliance"
	"sampark/contexts/voter-outreach/campaign-service/adapters/gateways"
	campaignmemory "sampark/contexts/voter-outreach/campaign-service/adapters/memory"
	postgresadapter "sampark/contexts/voter-outreach/campaign-service/adapters/postgres"
	workerapp "sampark/contexts/voter-outreach/campaign-service/application/workers"
	"sampark/contexts/voter-outreach/campaign-service/domain/entities"
	campaignports "sampark/contexts/voter-outreach/campaign-service/ports"
	complianceservice "sampark/contexts/voter-outreach/compliance-service"
	compliancememory "sampark/contexts/voter-outreach/compliance-service/adapters/memory"
	redisadapter "sampark/contexts/voter-outreach/compliance-service/adapters/redis"
	complianceports "sampark/contexts/voter-outreach/compliance-service/ports"
	"sampark/internal/platform/cache"
	"sampark/internal/platform/config"
	"sampark/internal/platform/db"
	"sampark/internal/platform/httpserver"
	"sampark/internal/platform/queue"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *cache.Redis
	amqp     *queue.AMQP
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	redis         *cache.Redis
	amqp          *queue.AMQP
	consumer      workerapp.DispatchConsumer
	sweeper       workerapp.ScheduledCampaignSweeper
	sweepInterval time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	deps, closers, err := buildDependencies(cfg, logger)
	if err != nil {
		return nil, err
	}

	module := campaignservice.NewModule(deps)
	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: closers.postgres,
		redis:    closers.redis,
		amqp:     closers.amqp,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	if strings.TrimSpace(cfg.AMQPUrl) == "" {
		return nil, errors.New("AMQP_URL is required for the dispatch worker")
	}

	deps, closers, err := buildDependencies(cfg, logger)
	if err != nil {
		return nil, err
	}

	module := campaignservice.NewModule(deps)
	return &WorkerApp{
		postgres: closers.postgres,
		redis:    closers.redis,
		amqp:     closers.amqp,
		consumer: workerapp.DispatchConsumer{
			Queue:    closers.amqp,
			Dispatch: module.Dispatch,
			Logger:   logger,
		},
		sweeper:       module.Sweeper,
		sweepInterval: cfg.SweepInterval,
		logger:        logger,
	}, nil
}

type platformClosers struct {
	postgres *db.Postgres
	redis    *cache.Redis
	amqp     *queue.AMQP
}

func buildDependencies(cfg config.Config, logger *slog.Logger) (campaignservice.Dependencies, platformClosers, error) {
	var closers platformClosers

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return campaignservice.Dependencies{}, closers, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return campaignservice.Dependencies{}, closers, err
	}
	closers.postgres = pg
	repo := postgresadapter.NewRepository(pg.DB, logger)

	var limiter complianceports.RateLimiter
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		redisConn, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return campaignservice.Dependencies{}, closers, err
		}
		closers.redis = redisConn
		limiter = redisadapter.NewLimiter(redisConn.Client, postgresadapter.SystemClock{})
	} else {
		limiter = compliancememory.NewLimiter(postgresadapter.SystemClock{})
	}

	policies := compliancememory.NewStore(compliancePolicy(cfg))
	complianceModule := complianceservice.NewModule(complianceservice.Dependencies{
		Policies: policies,
		Limiter:  limiter,
		Clock:    postgresadapter.SystemClock{},
		Logger:   logger,
	})

	registry, err := gateways.NewRegistry(
		gateways.MSG91Gateway{
			AuthKey:    cfg.MSG91AuthKey,
			TemplateID: cfg.MSG91TemplateID,
			EntityID:   cfg.DLTEntityID,
		},
		gateways.GupshupGateway{
			APIKey:  cfg.GupshupAPIKey,
			AppName: cfg.GupshupAppName,
		},
		gateways.RouteMobileGateway{
			Username: cfg.RouteMobileUsername,
			Password: cfg.RouteMobilePassword,
		},
		gateways.WhatsAppGateway{
			AccessToken:   cfg.WhatsAppToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
		},
		gateways.SendGridGateway{
			APIKey:    cfg.SendGridAPIKey,
			FromName:  cfg.EmailFromName,
			FromEmail: cfg.EmailFrom,
		},
		gateways.ExotelGateway{
			AccountSID: cfg.ExotelAccountSID,
			APIKey:     cfg.ExotelAPIKey,
			APIToken:   cfg.ExotelAPIToken,
			FlowID:     cfg.ExotelFlowID,
		},
		gateways.TwilioGateway{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
		},
	)
	if err != nil {
		return campaignservice.Dependencies{}, closers, err
	}

	var publisher campaignports.JobPublisher
	if strings.TrimSpace(cfg.AMQPUrl) != "" {
		amqpConn, err := queue.ConnectAMQP(cfg.AMQPUrl, logger)
		if err != nil {
			return campaignservice.Dependencies{}, closers, err
		}
		closers.amqp = amqpConn
		publisher = amqpConn
	} else {
		publisher = queue.NewMemory(0)
	}

	return campaignservice.Dependencies{
		Campaigns:   repo,
		Messages:    repo,
		Voters:      repo,
		Gate:        complianceadapter.Gate{Service: complianceModule.Service},
		Gateways:    registry,
		OrgConfig:   orgChannelDefaults(cfg),
		Queue:       publisher,
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		Concurrency: cfg.DispatchConcurrency,
		Logger:      logger,
	}, closers, nil
}

// compliancePolicy applies the configured DLT registration on top of the
// default policy. SMS without a registered template fails the campaign gate.
func compliancePolicy(cfg config.Config) complianceports.Policy {
	policy := complianceports.DefaultPolicy()
	if policy.RegulatedChannels == nil {
		policy.RegulatedChannels = make(map[string]complianceports.TemplateRegistration)
	}
	policy.RegulatedChannels[string(entities.ChannelSMS)] = complianceports.TemplateRegistration{
		TemplateID: cfg.MSG91TemplateID,
		EntityID:   cfg.DLTEntityID,
	}
	return policy
}

// orgChannelDefaults enables each channel that has provider credentials.
// Per-organization overrides come from the config store API later; defaults
// keep a single-tenant deployment working out of the box.
func orgChannelDefaults(cfg config.Config) *campaignmemory.OrgConfigStore {
	defaults := map[entities.Channel]campaignports.OrgChannelConfig{
		entities.ChannelSMS: {
			Enabled:  cfg.MSG91AuthKey != "" || cfg.GupshupAPIKey != "" || cfg.RouteMobileUsername != "",
			Provider: cfg.SMSProvider,
		},
		entities.ChannelWhatsApp: {
			Enabled:  cfg.WhatsAppToken != "",
			Provider: "whatsapp_cloud",
			Sender:   cfg.WhatsAppPhoneNumberID,
		},
		entities.ChannelEmail: {
			Enabled:  cfg.SendGridAPIKey != "",
			Provider: "sendgrid",
			Sender:   cfg.EmailFrom,
		},
		entities.ChannelVoice: {
			Enabled:  cfg.ExotelAccountSID != "" || cfg.TwilioAccountSID != "",
			Provider: cfg.VoiceProvider,
		},
	}
	return campaignmemory.NewOrgConfigStore(defaults)
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.amqp != nil {
		_ = a.amqp.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"sweep_interval", w.sweepInterval.String(),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return w.consumer.Run(groupCtx)
	})
	group.Go(func() error {
		ticker := time.NewTicker(w.sweepInterval)
		defer ticker.Stop()
		for {
			if err := w.sweeper.RunOnce(groupCtx); err != nil {
				return err
			}
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case <-ticker.C:
			}
		}
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *WorkerApp) Close() error {
	if w.amqp != nil {
		_ = w.amqp.Close()
	}
	if w.redis != nil {
		_ = w.redis.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
