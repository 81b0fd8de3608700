package commands

import (
	"context"
	"log/slog"
	"strings"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
	contractsv1 "quorum/contracts/gen/events/v1"
)

type SetStatusCommand struct {
	ElectionID string
	Status     string
	Force      bool
}

type SetStatusUseCase struct {
	Elections   ports.ElectionRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

type SetStatusResult struct {
	ElectionID string
	From       entities.ElectionStatus
	To         entities.ElectionStatus
	Forced     bool
}

// Execute applies an explicit status decision. When the date-derived status
// disagrees with the request and force is not set, the request is rejected
// with the reason specific to the requested status. Every accepted request
// locks the election so passive sync stops overriding the operator.
func (uc SetStatusUseCase) Execute(ctx context.Context, cmd SetStatusCommand) (SetStatusResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	requested := entities.ElectionStatus(strings.TrimSpace(cmd.Status))
	if !entities.IsSupportedElectionStatus(requested) {
		return SetStatusResult{}, domainerrors.ErrInvalidStatus
	}

	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return SetStatusResult{}, err
	}

	now := uc.Clock.Now().UTC()
	if expected, ok := election.ExpectedStatus(now); ok && requested != expected && !cmd.Force {
		switch requested {
		case entities.ElectionStatusActive:
			return SetStatusResult{}, domainerrors.ErrActivateOutsideDates
		case entities.ElectionStatusFinalized:
			return SetStatusResult{}, domainerrors.ErrFinalizeBeforeEnd
		default:
			return SetStatusResult{}, domainerrors.ErrRevertToUpcoming
		}
	}

	if err := uc.Elections.SetElectionStatus(ctx, election.ElectionID, requested, true); err != nil {
		return SetStatusResult{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGenerator.NewID(ctx)
		if err != nil {
			return SetStatusResult{}, err
		}
		envelope, err := newElectionEnvelope(
			eventID,
			contractsv1.EventTypeElectionStatusChanged,
			election.ElectionID,
			now,
			map[string]any{
				"election_id": election.ElectionID,
				"from_status": string(election.Status),
				"to_status":   string(requested),
				"forced":      cmd.Force,
				"locked":      true,
			},
		)
		if err != nil {
			return SetStatusResult{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return SetStatusResult{}, err
		}
	}

	logger.Info("election status set",
		"event", "election_status_set",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"from_status", string(election.Status),
		"to_status", string(requested),
		"forced", cmd.Force,
	)
	return SetStatusResult{
		ElectionID: election.ElectionID,
		From:       election.Status,
		To:         requested,
		Forced:     cmd.Force,
	}, nil
}
