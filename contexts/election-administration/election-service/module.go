package electionservice

import (
	"log/slog"
	"time"

	httpadapter "quorum/contexts/election-administration/election-service/adapters/http"
	"quorum/contexts/election-administration/election-service/adapters/memory"
	"quorum/contexts/election-administration/election-service/application/commands"
	"quorum/contexts/election-administration/election-service/application/queries"
	"quorum/contexts/election-administration/election-service/domain/entities"
	"quorum/contexts/election-administration/election-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections      ports.ElectionRepository
	Positions      ports.PositionRepository
	Candidates     ports.CandidateRepository
	Ballots        ports.BallotRepository
	Voters         ports.VoterDirectory
	Audit          ports.AuditLogRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createElection := commands.CreateElectionUseCase{
		Elections:      deps.Elections,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	updateElection := commands.UpdateElectionUseCase{
		Elections:   deps.Elections,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	setStatus := commands.SetStatusUseCase{
		Elections:   deps.Elections,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	positions := commands.PositionUseCase{
		Elections:   deps.Elections,
		Positions:   deps.Positions,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	candidates := commands.CandidateUseCase{
		Elections:   deps.Elections,
		Positions:   deps.Positions,
		Candidates:  deps.Candidates,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	castBallot := commands.CastBallotUseCase{
		Elections:   deps.Elections,
		Candidates:  deps.Candidates,
		Ballots:     deps.Ballots,
		Voters:      deps.Voters,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	castVote := commands.CastVoteUseCase{
		Elections:   deps.Elections,
		Candidates:  deps.Candidates,
		Ballots:     deps.Ballots,
		Voters:      deps.Voters,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	listElections := queries.ListElectionsUseCase{
		Elections: deps.Elections,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	getElection := queries.GetElectionUseCase{
		Elections:  deps.Elections,
		Positions:  deps.Positions,
		Candidates: deps.Candidates,
		Logger:     deps.Logger,
	}
	listForVoter := queries.ListElectionsForVoterUseCase{
		Elections: deps.Elections,
		Voters:    deps.Voters,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	results := queries.ResultsUseCase{
		Elections:  deps.Elections,
		Positions:  deps.Positions,
		Candidates: deps.Candidates,
		Ballots:    deps.Ballots,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	voterStatus := queries.VoterStatusUseCase{
		Elections: deps.Elections,
		Positions: deps.Positions,
		Ballots:   deps.Ballots,
		Logger:    deps.Logger,
	}
	participation := queries.ParticipationUseCase{
		Elections: deps.Elections,
		Ballots:   deps.Ballots,
		Voters:    deps.Voters,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateElection: createElection,
			UpdateElection: updateElection,
			SetStatus:      setStatus,
			Positions:      positions,
			Candidates:     candidates,
			CastBallot:     castBallot,
			CastVote:       castVote,
			ListElections:  listElections,
			GetElection:    getElection,
			ListForVoter:   listForVoter,
			Results:        results,
			VoterStatus:    voterStatus,
			Participation:  participation,
			Audit:          deps.Audit,
			Logger:         deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Election, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Elections:      store,
		Positions:      store,
		Candidates:     store,
		Ballots:        store,
		Voters:         store,
		Audit:          store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
