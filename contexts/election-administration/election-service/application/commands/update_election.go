package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
	contractsv1 "quorum/contracts/gen/events/v1"
)

// UpdateElectionCommand carries partial edits: nil pointer fields stay
// unchanged. Dates are cleared through the explicit flags because nil already
// means "not provided". Status itself is never edited here; that is the
// status-transition command's job. StatusLocked is editable so an operator can
// hand a frozen election back to passive sync.
type UpdateElectionCommand struct {
	ElectionID        string
	Title             *string
	Description       *string
	StartDate         *time.Time
	EndDate           *time.Time
	ClearStartDate    bool
	ClearEndDate      bool
	AllowedGrade      *int
	ClearAllowedGrade bool
	AllowedSection    *string
	StatusLocked      *bool
}

type UpdateElectionUseCase struct {
	Elections   ports.ElectionRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc UpdateElectionUseCase) Execute(ctx context.Context, cmd UpdateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return entities.Election{}, err
	}

	now := uc.Clock.Now().UTC()
	if cmd.Title != nil {
		if strings.TrimSpace(*cmd.Title) == "" {
			return entities.Election{}, domainerrors.ErrInvalidElectionInput
		}
		election.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.Description != nil {
		election.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.ClearStartDate {
		election.StartDate = nil
	} else if cmd.StartDate != nil {
		if !entities.StartDateNotPast(cmd.StartDate, now) {
			return entities.Election{}, domainerrors.ErrStartDateInPast
		}
		election.StartDate = cmd.StartDate
	}
	if cmd.ClearEndDate {
		election.EndDate = nil
	} else if cmd.EndDate != nil {
		if !entities.EndDateNotPast(cmd.EndDate, now) {
			return entities.Election{}, domainerrors.ErrEndDateInPast
		}
		election.EndDate = cmd.EndDate
	}
	if !entities.EndDateNotBeforeStart(election.StartDate, election.EndDate) {
		return entities.Election{}, domainerrors.ErrEndDateBeforeStart
	}
	if cmd.ClearAllowedGrade {
		election.AllowedGrade = nil
	} else if cmd.AllowedGrade != nil {
		election.AllowedGrade = cmd.AllowedGrade
	}
	if cmd.AllowedSection != nil {
		election.AllowedSection = strings.TrimSpace(*cmd.AllowedSection)
	}
	if cmd.StatusLocked != nil {
		election.StatusLocked = *cmd.StatusLocked
	}
	election.UpdatedAt = now

	if err := uc.Elections.UpdateElection(ctx, election); err != nil {
		return entities.Election{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGenerator.NewID(ctx)
		if err != nil {
			return entities.Election{}, err
		}
		envelope, err := newElectionEnvelope(
			eventID,
			contractsv1.EventTypeElectionUpdated,
			election.ElectionID,
			now,
			map[string]any{
				"election_id":   election.ElectionID,
				"title":         election.Title,
				"status_locked": election.StatusLocked,
			},
		)
		if err != nil {
			return entities.Election{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return entities.Election{}, err
		}
	}

	logger.Info("election updated",
		"event", "election_updated",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
	)
	return election, nil
}
