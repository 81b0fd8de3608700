package voterdirectory

import (
	"log/slog"

	httpadapter "quorum/contexts/identity-access/voter-directory/adapters/http"
	"quorum/contexts/identity-access/voter-directory/adapters/memory"
	"quorum/contexts/identity-access/voter-directory/application"
	"quorum/contexts/identity-access/voter-directory/domain/entities"
	"quorum/contexts/identity-access/voter-directory/ports"
)

// Module is the voter-directory composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Voters ports.VoterRepository
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Voters: deps.Voters,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the directory against an in-memory roster for tests
// and local development.
func NewInMemoryModule(seed []entities.Voter, logger *slog.Logger) Module {
	store := memory.NewStore()
	for _, voter := range seed {
		store.SeedVoter(voter)
	}
	module := NewModule(Dependencies{
		Voters: store,
		Logger: logger,
	})
	module.Store = store
	return module
}
