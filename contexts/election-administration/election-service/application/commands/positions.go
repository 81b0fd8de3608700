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

type CreatePositionCommand struct {
	ElectionID   string
	Title        string
	DisplayOrder int
}

type UpdatePositionCommand struct {
	PositionID   string
	Title        *string
	DisplayOrder *int
}

// PositionUseCase manages the positions of an election. Positions are never
// deleted: committed ballot lines reference them and the log must stay
// interpretable.
type PositionUseCase struct {
	Elections   ports.ElectionRepository
	Positions   ports.PositionRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc PositionUseCase) Create(ctx context.Context, cmd CreatePositionCommand) (entities.Position, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.Title) == "" {
		return entities.Position{}, domainerrors.ErrInvalidPositionInput
	}
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return entities.Position{}, err
	}

	now := uc.Clock.Now().UTC()
	positionID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Position{}, err
	}
	position := entities.Position{
		PositionID:   positionID,
		ElectionID:   election.ElectionID,
		Title:        strings.TrimSpace(cmd.Title),
		DisplayOrder: cmd.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Positions.CreatePosition(ctx, position); err != nil {
		return entities.Position{}, err
	}

	logger.Info("position created",
		"event", "position_created",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"position_id", position.PositionID,
	)
	return position, nil
}

func (uc PositionUseCase) Update(ctx context.Context, cmd UpdatePositionCommand) (entities.Position, error) {
	logger := application.ResolveLogger(uc.Logger)
	position, err := uc.Positions.GetPosition(ctx, strings.TrimSpace(cmd.PositionID))
	if err != nil {
		return entities.Position{}, err
	}
	if cmd.Title != nil {
		if strings.TrimSpace(*cmd.Title) == "" {
			return entities.Position{}, domainerrors.ErrInvalidPositionInput
		}
		position.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.DisplayOrder != nil {
		position.DisplayOrder = *cmd.DisplayOrder
	}
	position.UpdatedAt = uc.Clock.Now().UTC()

	if err := uc.Positions.UpdatePosition(ctx, position); err != nil {
		return entities.Position{}, err
	}

	logger.Info("position updated",
		"event", "position_updated",
		"module", "election-administration/election-service",
		"layer", "application",
		"position_id", position.PositionID,
	)
	return position, nil
}
