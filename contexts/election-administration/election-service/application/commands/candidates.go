package commands

import (
	"context"
	"log/slog"
	"strings"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
)

type CreateCandidateCommand struct {
	ElectionID string
	PositionID *string
	FullName   string
	Party      string
}

type UpdateCandidateCommand struct {
	CandidateID   string
	FullName      *string
	Party         *string
	PositionID    *string
	ClearPosition bool
}

// CandidateUseCase manages an election's candidates. A candidate may be
// created without a position (general/unassigned) and reassigned later, but
// only within the same election. Like positions, candidates are never
// deleted.
type CandidateUseCase struct {
	Elections   ports.ElectionRepository
	Positions   ports.PositionRepository
	Candidates  ports.CandidateRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc CandidateUseCase) Create(ctx context.Context, cmd CreateCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.FullName) == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidCandidateInput
	}
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return entities.Candidate{}, err
	}
	positionID, err := uc.resolvePosition(ctx, election.ElectionID, cmd.PositionID)
	if err != nil {
		return entities.Candidate{}, err
	}

	now := uc.Clock.Now().UTC()
	candidateID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	candidate := entities.Candidate{
		CandidateID: candidateID,
		ElectionID:  election.ElectionID,
		PositionID:  positionID,
		FullName:    strings.TrimSpace(cmd.FullName),
		Party:       strings.TrimSpace(cmd.Party),
		VoteCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Candidates.CreateCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}

	logger.Info("candidate created",
		"event", "candidate_created",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"candidate_id", candidate.CandidateID,
	)
	return candidate, nil
}

func (uc CandidateUseCase) Update(ctx context.Context, cmd UpdateCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	candidate, err := uc.Candidates.GetCandidate(ctx, strings.TrimSpace(cmd.CandidateID))
	if err != nil {
		return entities.Candidate{}, err
	}
	if cmd.FullName != nil {
		if strings.TrimSpace(*cmd.FullName) == "" {
			return entities.Candidate{}, domainerrors.ErrInvalidCandidateInput
		}
		candidate.FullName = strings.TrimSpace(*cmd.FullName)
	}
	if cmd.Party != nil {
		candidate.Party = strings.TrimSpace(*cmd.Party)
	}
	if cmd.ClearPosition {
		candidate.PositionID = nil
	} else if cmd.PositionID != nil {
		positionID, err := uc.resolvePosition(ctx, candidate.ElectionID, cmd.PositionID)
		if err != nil {
			return entities.Candidate{}, err
		}
		candidate.PositionID = positionID
	}
	candidate.UpdatedAt = uc.Clock.Now().UTC()

	if err := uc.Candidates.UpdateCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}

	logger.Info("candidate updated",
		"event", "candidate_updated",
		"module", "election-administration/election-service",
		"layer", "application",
		"candidate_id", candidate.CandidateID,
	)
	return candidate, nil
}

// resolvePosition validates that an assignment target exists and belongs to
// the candidate's election.
func (uc CandidateUseCase) resolvePosition(ctx context.Context, electionID string, positionID *string) (*string, error) {
	if positionID == nil || strings.TrimSpace(*positionID) == "" {
		return nil, nil
	}
	position, err := uc.Positions.GetPosition(ctx, strings.TrimSpace(*positionID))
	if err != nil {
		return nil, err
	}
	if position.ElectionID != electionID {
		return nil, domainerrors.ErrPositionNotFound
	}
	resolved := position.PositionID
	return &resolved, nil
}
