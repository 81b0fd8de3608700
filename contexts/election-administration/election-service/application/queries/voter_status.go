package queries

import (
	"context"
	"log/slog"
	"strings"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	"quorum/contexts/election-administration/election-service/ports"
)

// VoterStatusUseCase answers the pre-submission questions the voting screen
// asks: has this voter already voted for a position, and how far through the
// ballot are they.
type VoterStatusUseCase struct {
	Elections ports.ElectionRepository
	Positions ports.PositionRepository
	Ballots   ports.BallotRepository
	Logger    *slog.Logger
}

// HasVotedForPosition reports whether a cast or spoiled record already exists
// for the voter on the given position. It never mutates state, so a false
// answer is advisory only; submission rechecks under the uniqueness guarantee.
func (uc VoterStatusUseCase) HasVotedForPosition(ctx context.Context, voterID, electionID, positionID string) (bool, error) {
	voterID = strings.TrimSpace(voterID)
	electionID = strings.TrimSpace(electionID)
	positionID = strings.TrimSpace(positionID)

	if _, err := uc.Elections.GetElection(ctx, electionID); err != nil {
		return false, err
	}
	return uc.Ballots.HasVotedForPosition(ctx, voterID, electionID, positionID)
}

// BallotCompletion reports how many of the election's positions the voter has
// already covered. Completed stays false for an election with no positions.
func (uc VoterStatusUseCase) BallotCompletion(ctx context.Context, voterID, electionID string) (entities.BallotCompletion, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID = strings.TrimSpace(voterID)
	electionID = strings.TrimSpace(electionID)

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.BallotCompletion{}, err
	}
	positions, err := uc.Positions.ListPositionsByElection(ctx, election.ElectionID)
	if err != nil {
		return entities.BallotCompletion{}, err
	}
	votedIDs, err := uc.Ballots.ListVotedPositionIDs(ctx, voterID, election.ElectionID)
	if err != nil {
		return entities.BallotCompletion{}, err
	}

	voted := make(map[string]struct{}, len(votedIDs))
	for _, id := range votedIDs {
		voted[id] = struct{}{}
	}
	completion := entities.BallotCompletion{TotalPositions: len(positions)}
	for _, position := range positions {
		if _, ok := voted[position.PositionID]; ok {
			completion.VotedPositions++
			completion.VotedPositionIDs = append(completion.VotedPositionIDs, position.PositionID)
		}
	}
	completion.Completed = completion.TotalPositions > 0 && completion.VotedPositions >= completion.TotalPositions

	logger.Info("ballot completion resolved",
		"event", "ballot_completion_resolved",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"voter_id", voterID,
		"voted_positions", completion.VotedPositions,
		"total_positions", completion.TotalPositions,
	)
	return completion, nil
}
