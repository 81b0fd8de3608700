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

type CastBallotCommand struct {
	VoterID    string
	ElectionID string
	Lines      []entities.BallotLine
}

type CastBallotUseCase struct {
	Elections   ports.ElectionRepository
	Candidates  ports.CandidateRepository
	Ballots     ports.BallotRepository
	Voters      ports.VoterDirectory
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

type CastBallotResult struct {
	Records []entities.VotingRecord
}

// Execute commits a multi-position ballot as one unit of work: either every
// line becomes a record or none does. A voter who already holds a record for
// any referenced position gets a conflict for the whole submission; positions
// not yet voted stay open for a later, separate submission. The rejection is
// identical whether the pre-check catches the duplicate or the storage
// uniqueness constraint does at commit time.
func (uc CastBallotUseCase) Execute(ctx context.Context, cmd CastBallotCommand) (CastBallotResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	voterID := strings.TrimSpace(cmd.VoterID)
	electionID := strings.TrimSpace(cmd.ElectionID)
	lines := normalizeLines(cmd.Lines)
	if voterID == "" || electionID == "" {
		return CastBallotResult{}, domainerrors.ErrInvalidElectionInput
	}
	if len(lines) == 0 {
		return CastBallotResult{}, domainerrors.ErrEmptyBallot
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return CastBallotResult{}, err
	}
	profile, err := uc.Voters.GetVoterProfile(ctx, voterID)
	if err != nil {
		return CastBallotResult{}, err
	}
	if !election.EligibleFor(profile) {
		return CastBallotResult{}, domainerrors.ErrVoterNotEligible
	}

	for _, line := range lines {
		if line.Abstain() {
			continue
		}
		candidate, err := uc.Candidates.GetCandidate(ctx, *line.CandidateID)
		if err != nil {
			return CastBallotResult{}, err
		}
		if candidate.ElectionID != election.ElectionID {
			return CastBallotResult{}, domainerrors.ErrCandidateNotFound
		}
	}

	for _, line := range lines {
		if line.PositionID == nil {
			continue
		}
		voted, err := uc.Ballots.HasVotedForPosition(ctx, voterID, electionID, *line.PositionID)
		if err != nil {
			return CastBallotResult{}, err
		}
		if voted {
			return CastBallotResult{}, domainerrors.ErrBallotAlreadyVoted
		}
	}

	now := uc.Clock.Now().UTC()
	records := make([]entities.VotingRecord, 0, len(lines))
	positionIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		recordID, err := uc.IDGenerator.NewID(ctx)
		if err != nil {
			return CastBallotResult{}, err
		}
		status := entities.RecordStatusCast
		if line.Abstain() {
			status = entities.RecordStatusSpoiled
		}
		records = append(records, entities.VotingRecord{
			RecordID:    recordID,
			VoterID:     voterID,
			ElectionID:  electionID,
			PositionID:  line.PositionID,
			CandidateID: line.CandidateID,
			Status:      status,
			VotedAt:     now,
		})
		if line.PositionID != nil {
			positionIDs = append(positionIDs, *line.PositionID)
		}
	}

	eventID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CastBallotResult{}, err
	}
	envelope, err := newElectionEnvelope(
		eventID,
		contractsv1.EventTypeElectionBallotCast,
		electionID,
		now,
		map[string]any{
			"election_id":  electionID,
			"voter_id":     voterID,
			"line_count":   len(records),
			"position_ids": positionIDs,
		},
	)
	if err != nil {
		return CastBallotResult{}, err
	}

	if err := uc.Ballots.CastBallot(ctx, records, envelope); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateVote) {
			return CastBallotResult{}, domainerrors.ErrBallotAlreadyVoted
		}
		return CastBallotResult{}, err
	}

	logger.Info("ballot cast",
		"event", "ballot_cast",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", electionID,
		"voter_id", voterID,
		"line_count", len(records),
	)
	return CastBallotResult{Records: records}, nil
}

// normalizeLines drops pointer-to-empty IDs so the rest of the pipeline only
// deals with nil-or-meaningful values.
func normalizeLines(lines []entities.BallotLine) []entities.BallotLine {
	normalized := make([]entities.BallotLine, 0, len(lines))
	for _, line := range lines {
		item := entities.BallotLine{}
		if line.PositionID != nil && strings.TrimSpace(*line.PositionID) != "" {
			value := strings.TrimSpace(*line.PositionID)
			item.PositionID = &value
		}
		if line.CandidateID != nil && strings.TrimSpace(*line.CandidateID) != "" {
			value := strings.TrimSpace(*line.CandidateID)
			item.CandidateID = &value
		}
		normalized = append(normalized, item)
	}
	return normalized
}
