package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "quorum/contexts/election-administration/election-service/application"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
	contractsv1 "quorum/contracts/gen/events/v1"
)

type CreateElectionCommand struct {
	IdempotencyKey string
	Title          string
	Description    string
	StartDate      *time.Time
	EndDate        *time.Time
	Status         string
	AllowedGrade   *int
	AllowedSection string
}

type CreateElectionUseCase struct {
	Elections      ports.ElectionRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type CreateElectionResult struct {
	Election entities.Election
	Replayed bool
}

type createElectionReplayPayload struct {
	ElectionID     string                  `json:"election_id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	StartDate      *time.Time              `json:"start_date"`
	EndDate        *time.Time              `json:"end_date"`
	Status         entities.ElectionStatus `json:"status"`
	StatusLocked   bool                    `json:"status_locked"`
	AllowedGrade   *int                    `json:"allowed_grade"`
	AllowedSection string                  `json:"allowed_section"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

func (uc CreateElectionUseCase) Execute(ctx context.Context, cmd CreateElectionCommand) (CreateElectionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateElectionResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.Clock.Now().UTC()
	requestHash := hashCreateElectionCommand(cmd)
	if record, found, err := uc.Idempotency.GetRecord(ctx, cmd.IdempotencyKey, now); err != nil {
		return CreateElectionResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CreateElectionResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var payload createElectionReplayPayload
		if err := json.Unmarshal(record.ResponsePayload, &payload); err != nil {
			return CreateElectionResult{}, err
		}
		return CreateElectionResult{
			Election: entities.Election{
				ElectionID:     payload.ElectionID,
				Title:          payload.Title,
				Description:    payload.Description,
				StartDate:      payload.StartDate,
				EndDate:        payload.EndDate,
				Status:         payload.Status,
				StatusLocked:   payload.StatusLocked,
				AllowedGrade:   payload.AllowedGrade,
				AllowedSection: payload.AllowedSection,
				CreatedAt:      payload.CreatedAt,
				UpdatedAt:      payload.UpdatedAt,
			},
			Replayed: true,
		}, nil
	}

	status := entities.ElectionStatus(strings.TrimSpace(cmd.Status))
	if status == "" {
		status = entities.ElectionStatusUpcoming
	}
	if !entities.IsSupportedElectionStatus(status) {
		return CreateElectionResult{}, domainerrors.ErrInvalidStatus
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return CreateElectionResult{}, domainerrors.ErrInvalidElectionInput
	}
	if err := validateElectionDates(cmd.StartDate, cmd.EndDate, now); err != nil {
		return CreateElectionResult{}, err
	}

	electionID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateElectionResult{}, err
	}

	election := entities.Election{
		ElectionID:     electionID,
		Title:          strings.TrimSpace(cmd.Title),
		Description:    strings.TrimSpace(cmd.Description),
		StartDate:      cmd.StartDate,
		EndDate:        cmd.EndDate,
		Status:         status,
		StatusLocked:   false,
		AllowedGrade:   cmd.AllowedGrade,
		AllowedSection: strings.TrimSpace(cmd.AllowedSection),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.Elections.CreateElection(ctx, election); err != nil {
		return CreateElectionResult{}, err
	}

	payload := createElectionReplayPayload{
		ElectionID:     election.ElectionID,
		Title:          election.Title,
		Description:    election.Description,
		StartDate:      election.StartDate,
		EndDate:        election.EndDate,
		Status:         election.Status,
		StatusLocked:   election.StatusLocked,
		AllowedGrade:   election.AllowedGrade,
		AllowedSection: election.AllowedSection,
		CreatedAt:      election.CreatedAt,
		UpdatedAt:      election.UpdatedAt,
	}
	serialized, err := json.Marshal(payload)
	if err != nil {
		return CreateElectionResult{}, err
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             cmd.IdempotencyKey,
		RequestHash:     requestHash,
		ResponsePayload: serialized,
		ExpiresAt:       now.Add(uc.IdempotencyTTL),
	}); err != nil {
		return CreateElectionResult{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGenerator.NewID(ctx)
		if err != nil {
			return CreateElectionResult{}, err
		}
		envelope, err := newElectionEnvelope(
			eventID,
			contractsv1.EventTypeElectionCreated,
			election.ElectionID,
			now,
			map[string]any{
				"election_id": election.ElectionID,
				"title":       election.Title,
				"status":      string(election.Status),
			},
		)
		if err != nil {
			return CreateElectionResult{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return CreateElectionResult{}, err
		}
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "election-administration/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"status", string(election.Status),
	)
	return CreateElectionResult{Election: election}, nil
}

func validateElectionDates(startDate, endDate *time.Time, now time.Time) error {
	if !entities.StartDateNotPast(startDate, now) {
		return domainerrors.ErrStartDateInPast
	}
	if !entities.EndDateNotPast(endDate, now) {
		return domainerrors.ErrEndDateInPast
	}
	if !entities.EndDateNotBeforeStart(startDate, endDate) {
		return domainerrors.ErrEndDateBeforeStart
	}
	return nil
}

func hashCreateElectionCommand(cmd CreateElectionCommand) string {
	payload := map[string]any{
		"title":           strings.TrimSpace(cmd.Title),
		"description":     strings.TrimSpace(cmd.Description),
		"status":          strings.TrimSpace(cmd.Status),
		"allowed_grade":   cmd.AllowedGrade,
		"allowed_section": strings.TrimSpace(cmd.AllowedSection),
	}
	if cmd.StartDate != nil {
		payload["start_date"] = cmd.StartDate.UTC().Format(time.RFC3339Nano)
	}
	if cmd.EndDate != nil {
		payload["end_date"] = cmd.EndDate.UTC().Format(time.RFC3339Nano)
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
