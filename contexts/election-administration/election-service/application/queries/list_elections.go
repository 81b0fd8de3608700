package queries

import (
	"context"
	"log/slog"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	"quorum/contexts/election-administration/election-service/ports"
)

type ListElectionsUseCase struct {
	Elections ports.ElectionRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute lists every election, first letting passive sync reconcile stored
// statuses with wall-clock time. Listing is what keeps statuses fresh without
// a scheduler, so the sync step is not optional here.
func (uc ListElectionsUseCase) Execute(ctx context.Context) ([]entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)

	changes, err := uc.Elections.SyncElectionStatuses(ctx, uc.Clock.Now().UTC(), 0)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		logger.Info("election statuses synced",
			"event", "election_statuses_synced",
			"module", "election-administration/election-service",
			"layer", "application",
			"changed_count", len(changes),
		)
	}

	items, err := uc.Elections.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("elections listed",
		"event", "elections_listed",
		"module", "election-administration/election-service",
		"layer", "application",
		"count", len(items),
	)
	return items, nil
}
