package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
	contractsv1 "quorum/contracts/gen/events/v1"
)

type CastVoteCommand struct {
	VoterID     string
	ElectionID  string
	CandidateID string
}

type CastVoteUseCase struct {
	Elections   ports.ElectionRepository
	Candidates  ports.CandidateRepository
	Ballots     ports.BallotRepository
	Voters      ports.VoterDirectory
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

type CastVoteResult struct {
	Record entities.VotingRecord
}

// Execute is the legacy single-selection form of ballot casting. The position
// comes from the candidate's own assignment; a candidate without a position
// votes at election scope, which only the application-level pre-check can
// guard because the uniqueness constraint does not cover null positions.
func (uc CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	voterID := strings.TrimSpace(cmd.VoterID)
	electionID := strings.TrimSpace(cmd.ElectionID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if voterID == "" || electionID == "" || candidateID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidElectionInput
	}

	candidate, err := uc.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if candidate.ElectionID != electionID {
		return CastVoteResult{}, domainerrors.ErrCandidateNotFound
	}
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	profile, err := uc.Voters.GetVoterProfile(ctx, voterID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !election.EligibleFor(profile) {
		return CastVoteResult{}, domainerrors.ErrVoterNotEligible
	}

	if candidate.Assigned() {
		voted, err := uc.Ballots.HasVotedForPosition(ctx, voterID, electionID, *candidate.PositionID)
		if err != nil {
			return CastVoteResult{}, err
		}
		if voted {
			return CastVoteResult{}, domainerrors.ErrAlreadyVotedPosition
		}
	} else {
		voted, err := uc.Ballots.HasVotedInElection(ctx, voterID, electionID)
		if err != nil {
			return CastVoteResult{}, err
		}
		if voted {
			return CastVoteResult{}, domainerrors.ErrAlreadyVotedElection
		}
	}

	now := uc.Clock.Now().UTC()
	recordID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	record := entities.VotingRecord{
		RecordID:    recordID,
		VoterID:     voterID,
		ElectionID:  electionID,
		PositionID:  candidate.PositionID,
		CandidateID: &candidate.CandidateID,
		Status:      entities.RecordStatusCast,
		VotedAt:     now,
	}

	eventID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	envelope, err := newElectionEnvelope(
		eventID,
		contractsv1.EventTypeElectionBallotCast,
		electionID,
		now,
		map[string]any{
			"election_id":  electionID,
			"voter_id":     voterID,
			"candidate_id": candidate.CandidateID,
			"line_count":   1,
		},
	)
	if err != nil {
		return CastVoteResult{}, err
	}

	if err := uc.Ballots.CastBallot(ctx, []entities.VotingRecord{record}, envelope); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateVote) {
			return CastVoteResult{}, domainerrors.ErrAlreadyVotedPosition
		}
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "vote_cast",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", electionID,
		"voter_id", voterID,
		"candidate_id", candidate.CandidateID,
	)
	return CastVoteResult{Record: record}, nil
}
