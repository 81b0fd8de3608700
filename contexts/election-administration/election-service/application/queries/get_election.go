package queries

import (
	"context"
	"log/slog"
	"strings"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	"quorum/contexts/election-administration/election-service/ports"
)

type GetElectionUseCase struct {
	Elections  ports.ElectionRepository
	Positions  ports.PositionRepository
	Candidates ports.CandidateRepository
	Logger     *slog.Logger
}

type ElectionDetail struct {
	Election   entities.Election
	Positions  []entities.Position
	Candidates []entities.Candidate
}

func (uc GetElectionUseCase) Execute(ctx context.Context, electionID string) (ElectionDetail, error) {
	logger := application.ResolveLogger(uc.Logger)

	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return ElectionDetail{}, err
	}
	positions, err := uc.Positions.ListPositionsByElection(ctx, election.ElectionID)
	if err != nil {
		return ElectionDetail{}, err
	}
	candidates, err := uc.Candidates.ListCandidatesByElection(ctx, election.ElectionID)
	if err != nil {
		return ElectionDetail{}, err
	}

	logger.Info("election fetched",
		"event", "election_fetched",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
	)
	return ElectionDetail{
		Election:   election,
		Positions:  positions,
		Candidates: candidates,
	}, nil
}
