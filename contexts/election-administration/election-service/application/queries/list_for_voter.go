package queries

import (
	"context"
	"log/slog"
	"strings"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	"quorum/contexts/election-administration/election-service/ports"
)

type ListElectionsForVoterUseCase struct {
	Elections ports.ElectionRepository
	Voters    ports.VoterDirectory
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute returns the elections a voter is eligible for, across all
// lifecycle states; callers segment by status. Statuses are synced first so a
// voter never sees yesterday's "upcoming" on an election that opened today.
func (uc ListElectionsForVoterUseCase) Execute(ctx context.Context, voterID string) ([]entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)

	profile, err := uc.Voters.GetVoterProfile(ctx, strings.TrimSpace(voterID))
	if err != nil {
		return nil, err
	}
	if _, err := uc.Elections.SyncElectionStatuses(ctx, uc.Clock.Now().UTC(), 0); err != nil {
		return nil, err
	}
	items, err := uc.Elections.ListElections(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]entities.Election, 0, len(items))
	for _, election := range items {
		if election.EligibleFor(profile) {
			eligible = append(eligible, election)
		}
	}

	logger.Info("voter elections listed",
		"event", "voter_elections_listed",
		"module", "election-administration/election-service",
		"layer", "application",
		"voter_id", profile.VoterID,
		"eligible_count", len(eligible),
	)
	return eligible, nil
}
