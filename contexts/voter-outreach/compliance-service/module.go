package complianceservice

import (
	"log/slog"

	"sampark/contexts/voter-outreach/compliance-service/adapters/memory"
	"sampark/contexts/voter-outreach/compliance-service/application"
	"sampark/contexts/voter-outreach/compliance-service/ports"
)

type Module struct {
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Policies ports.PolicyProvider
	Limiter  ports.RateLimiter
	Clock    ports.Clock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Policies: deps.Policies,
			Limiter:  deps.Limiter,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(defaults ports.Policy, logger *slog.Logger) Module {
	store := memory.NewStore(defaults)
	module := NewModule(Dependencies{
		Policies: store,
		Limiter:  memory.NewLimiter(store),
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
