package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
	contractsv1 "quorum/contracts/gen/events/v1"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidElectionInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateElection(ctx context.Context, election entities.Election) error {
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("election_id = ?", strings.TrimSpace(election.ElectionID)).
		Updates(electionUpdatesFromEntity(election))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SetElectionStatus(
	ctx context.Context,
	electionID string,
	status entities.ElectionStatus,
	locked bool,
) error {
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Updates(map[string]any{
			"status":        string(status),
			"status_locked": locked,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

// SyncElectionStatuses locks drift candidates, re-derives each status from its
// date window, and writes every transition together with its status-changed
// outbox row in a single transaction. Locked elections are skipped entirely.
func (r *Repository) SyncElectionStatuses(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]ports.StatusTransition, error) {
	timestamp := now.UTC()
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	transitions := make([]ports.StatusTransition, 0)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status_locked = ?", false).
			Where("start_date IS NOT NULL OR end_date IS NOT NULL").
			Order("created_at ASC")
		if limit > 0 {
			query = query.Limit(limit)
		}

		var rows []electionModel
		if err := query.Find(&rows).Error; err != nil {
			return err
		}

		for _, row := range rows {
			election := row.toEntity()
			expected, derivable := election.ExpectedStatus(timestamp)
			if !derivable || expected == election.Status {
				continue
			}

			if err := tx.Model(&electionModel{}).
				Where("election_id = ?", election.ElectionID).
				Updates(map[string]any{
					"status":     string(expected),
					"updated_at": timestamp,
				}).
				Error; err != nil {
				return err
			}

			envelope, err := electionEnvelopeFromMap(
				uuid.NewString(),
				contractsv1.EventTypeElectionStatusChanged,
				election.ElectionID,
				timestamp,
				map[string]any{
					"election_id": election.ElectionID,
					"from":        string(election.Status),
					"to":          string(expected),
					"forced":      false,
					"locked":      false,
				},
			)
			if err != nil {
				return err
			}
			if err := insertOutboxEnvelopeTx(tx, envelope); err != nil {
				return err
			}

			transitions = append(transitions, ports.StatusTransition{
				ElectionID: election.ElectionID,
				From:       election.Status,
				To:         expected,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transitions, nil
}

func (r *Repository) CreatePosition(ctx context.Context, position entities.Position) error {
	row := positionModelFromEntity(position)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidPositionInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdatePosition(ctx context.Context, position entities.Position) error {
	result := r.db.WithContext(ctx).
		Model(&positionModel{}).
		Where("position_id = ?", strings.TrimSpace(position.PositionID)).
		Updates(map[string]any{
			"title":         strings.TrimSpace(position.Title),
			"display_order": position.DisplayOrder,
			"updated_at":    position.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPositionNotFound
	}
	return nil
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (entities.Position, error) {
	var row positionModel
	err := r.db.WithContext(ctx).
		Where("position_id = ?", strings.TrimSpace(positionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Position{}, domainerrors.ErrPositionNotFound
		}
		return entities.Position{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPositionsByElection(ctx context.Context, electionID string) ([]entities.Position, error) {
	var rows []positionModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("display_order ASC, title ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Position, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCandidateInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateCandidate(ctx context.Context, candidate entities.Candidate) error {
	result := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("candidate_id = ?", strings.TrimSpace(candidate.CandidateID)).
		Updates(map[string]any{
			"position_id": normalizeOptionalString(candidate.PositionID),
			"full_name":   strings.TrimSpace(candidate.FullName),
			"party":       strings.TrimSpace(candidate.Party),
			"updated_at":  candidate.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCandidateNotFound
	}
	return nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidatesByElection(ctx context.Context, electionID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("full_name ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// CastBallot commits every record, the vote-count cache increments, and the
// ballot-cast outbox row atomically. The pre-check inside the transaction and
// the unique index on (voter_id, election_id, position_id) both surface as
// ErrDuplicateVote, so racing submissions lose the same way slow ones do.
func (r *Repository) CastBallot(
	ctx context.Context,
	records []entities.VotingRecord,
	envelope ports.EventEnvelope,
) error {
	if len(records) == 0 {
		return domainerrors.ErrEmptyBallot
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			query := tx.Model(&votingRecordModel{}).
				Where("voter_id = ?", strings.TrimSpace(record.VoterID)).
				Where("election_id = ?", strings.TrimSpace(record.ElectionID))
			if record.PositionID != nil {
				query = query.Where("position_id = ?", strings.TrimSpace(*record.PositionID))
			} else {
				// NULLs compare distinct under the unique index, so records
				// without a position rely on this check alone.
				query = query.Where("position_id IS NULL")
			}

			var count int64
			if err := query.Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return domainerrors.ErrDuplicateVote
			}
		}

		for _, record := range records {
			row := votingRecordModelFromEntity(record)
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrDuplicateVote
				}
				return err
			}

			if record.Status == entities.RecordStatusCast && record.CandidateID != nil {
				if err := tx.Model(&candidateModel{}).
					Where("candidate_id = ?", strings.TrimSpace(*record.CandidateID)).
					Updates(map[string]any{
						"vote_count": gorm.Expr("vote_count + ?", 1),
						"updated_at": record.VotedAt.UTC(),
					}).
					Error; err != nil {
					return err
				}
			}
		}

		return insertOutboxEnvelopeTx(tx, envelope)
	})
}

func (r *Repository) HasVotedForPosition(ctx context.Context, voterID, electionID, positionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&votingRecordModel{}).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("position_id = ?", strings.TrimSpace(positionID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) HasVotedInElection(ctx context.Context, voterID, electionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&votingRecordModel{}).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListVotedPositionIDs(ctx context.Context, voterID, electionID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&votingRecordModel{}).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("position_id IS NOT NULL").
		Pluck("position_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) CountCastVotesByCandidate(ctx context.Context, electionID string) (map[string]int, error) {
	type tallyRow struct {
		CandidateID string `gorm:"column:candidate_id"`
		Total       int    `gorm:"column:total"`
	}

	var rows []tallyRow
	err := r.db.WithContext(ctx).
		Model(&votingRecordModel{}).
		Select("candidate_id, COUNT(*) AS total").
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("status = ?", string(entities.RecordStatusCast)).
		Where("candidate_id IS NOT NULL").
		Group("candidate_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	tallies := make(map[string]int, len(rows))
	for _, row := range rows {
		tallies[row.CandidateID] = row.Total
	}
	return tallies, nil
}

func (r *Repository) CountCastRecords(ctx context.Context, electionID string) (int, error) {
	tx := r.db.WithContext(ctx).
		Model(&votingRecordModel{}).
		Where("status = ?", string(entities.RecordStatusCast))
	if strings.TrimSpace(electionID) != "" {
		tx = tx.Where("election_id = ?", strings.TrimSpace(electionID))
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CountDistinctVoters(ctx context.Context, electionID string) (int, error) {
	tx := r.db.WithContext(ctx).
		Model(&votingRecordModel{}).
		Distinct("voter_id")
	if strings.TrimSpace(electionID) != "" {
		tx = tx.Where("election_id = ?", strings.TrimSpace(electionID))
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) GetVoterProfile(ctx context.Context, voterID string) (entities.VoterProfile, error) {
	var row voterProjectionModel
	err := r.db.WithContext(ctx).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoterProfile{}, domainerrors.ErrVoterNotFound
		}
		return entities.VoterProfile{}, err
	}
	return entities.VoterProfile{
		VoterID:  row.VoterID,
		FullName: row.FullName,
		Grade:    row.Grade,
		Section:  row.Section,
	}, nil
}

func (r *Repository) CountVoters(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&voterProjectionModel{}).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) AppendEntry(ctx context.Context, entry entities.AuditEntry) error {
	row := auditEntryModel{
		EntryID:    strings.TrimSpace(entry.EntryID),
		EventID:    strings.TrimSpace(entry.EventID),
		Action:     strings.TrimSpace(entry.Action),
		ElectionID: strings.TrimSpace(entry.ElectionID),
		ActorID:    strings.TrimSpace(entry.ActorID),
		Details:    entry.Details,
		OccurredAt: entry.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		return err
	}
	return nil
}

func (r *Repository) ListEntries(ctx context.Context, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []auditEntryModel
	if err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.AuditEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.AuditEntry{
			EntryID:    row.EntryID,
			EventID:    row.EventID,
			Action:     row.Action,
			ElectionID: row.ElectionID,
			ActorID:    row.ActorID,
			Details:    row.Details,
			OccurredAt: row.OccurredAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || !bytes.Equal(existing.ResponsePayload, row.ResponsePayload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidElectionInput
	}
	return nil
}

func (r *Repository) ReserveEvent(
	ctx context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	row := eventDedupModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: strings.TrimSpace(payloadHash),
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return false, createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return false, nil
	}

	var existing eventDedupModel
	if err := r.db.WithContext(ctx).
		Select("payload_hash").
		Where("event_id = ?", row.EventID).
		First(&existing).
		Error; err != nil {
		return false, err
	}
	if existing.PayloadHash != row.PayloadHash {
		return false, domainerrors.ErrIdempotencyKeyConflict
	}
	return true, nil
}

func insertOutboxEnvelopeTx(tx *gorm.DB, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	createResult := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected == 0 {
		var existing outboxModel
		if err := tx.Select("payload").Where("outbox_id = ?", row.OutboxID).First(&existing).Error; err != nil {
			return err
		}
		if !bytes.Equal(existing.Payload, row.Payload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
	}
	return nil
}

func electionEnvelopeFromMap(
	eventID string,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "election-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     electionID,
		Data:             payload,
	}, nil
}

type electionModel struct {
	ElectionID     string     `gorm:"column:election_id;primaryKey"`
	Title          string     `gorm:"column:title"`
	Description    string     `gorm:"column:description"`
	StartDate      *time.Time `gorm:"column:start_date"`
	EndDate        *time.Time `gorm:"column:end_date"`
	Status         string     `gorm:"column:status"`
	StatusLocked   bool       `gorm:"column:status_locked"`
	AllowedGrade   *int       `gorm:"column:allowed_grade"`
	AllowedSection string     `gorm:"column:allowed_section"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(item entities.Election) electionModel {
	return electionModel{
		ElectionID:     strings.TrimSpace(item.ElectionID),
		Title:          strings.TrimSpace(item.Title),
		Description:    strings.TrimSpace(item.Description),
		StartDate:      normalizeOptionalTime(item.StartDate),
		EndDate:        normalizeOptionalTime(item.EndDate),
		Status:         string(item.Status),
		StatusLocked:   item.StatusLocked,
		AllowedGrade:   item.AllowedGrade,
		AllowedSection: strings.TrimSpace(item.AllowedSection),
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func electionUpdatesFromEntity(item entities.Election) map[string]any {
	row := electionModelFromEntity(item)
	return map[string]any{
		"title":           row.Title,
		"description":     row.Description,
		"start_date":      row.StartDate,
		"end_date":        row.EndDate,
		"status_locked":   row.StatusLocked,
		"allowed_grade":   row.AllowedGrade,
		"allowed_section": row.AllowedSection,
		"updated_at":      row.UpdatedAt,
	}
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:     m.ElectionID,
		Title:          m.Title,
		Description:    m.Description,
		StartDate:      normalizeOptionalTime(m.StartDate),
		EndDate:        normalizeOptionalTime(m.EndDate),
		Status:         entities.ElectionStatus(m.Status),
		StatusLocked:   m.StatusLocked,
		AllowedGrade:   m.AllowedGrade,
		AllowedSection: m.AllowedSection,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type positionModel struct {
	PositionID   string    `gorm:"column:position_id;primaryKey"`
	ElectionID   string    `gorm:"column:election_id"`
	Title        string    `gorm:"column:title"`
	DisplayOrder int       `gorm:"column:display_order"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (positionModel) TableName() string {
	return "positions"
}

func positionModelFromEntity(item entities.Position) positionModel {
	return positionModel{
		PositionID:   strings.TrimSpace(item.PositionID),
		ElectionID:   strings.TrimSpace(item.ElectionID),
		Title:        strings.TrimSpace(item.Title),
		DisplayOrder: item.DisplayOrder,
		CreatedAt:    item.CreatedAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID:   m.PositionID,
		ElectionID:   m.ElectionID,
		Title:        m.Title,
		DisplayOrder: m.DisplayOrder,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type candidateModel struct {
	CandidateID string    `gorm:"column:candidate_id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id"`
	PositionID  *string   `gorm:"column:position_id"`
	FullName    string    `gorm:"column:full_name"`
	Party       string    `gorm:"column:party"`
	VoteCount   int       `gorm:"column:vote_count"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(item entities.Candidate) candidateModel {
	return candidateModel{
		CandidateID: strings.TrimSpace(item.CandidateID),
		ElectionID:  strings.TrimSpace(item.ElectionID),
		PositionID:  normalizeOptionalString(item.PositionID),
		FullName:    strings.TrimSpace(item.FullName),
		Party:       strings.TrimSpace(item.Party),
		VoteCount:   item.VoteCount,
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.CandidateID,
		ElectionID:  m.ElectionID,
		PositionID:  normalizeOptionalString(m.PositionID),
		FullName:    m.FullName,
		Party:       m.Party,
		VoteCount:   m.VoteCount,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type votingRecordModel struct {
	RecordID    string    `gorm:"column:record_id;primaryKey"`
	VoterID     string    `gorm:"column:voter_id"`
	ElectionID  string    `gorm:"column:election_id"`
	PositionID  *string   `gorm:"column:position_id"`
	CandidateID *string   `gorm:"column:candidate_id"`
	Status      string    `gorm:"column:status"`
	VotedAt     time.Time `gorm:"column:voted_at"`
}

func (votingRecordModel) TableName() string {
	return "voting_records"
}

func votingRecordModelFromEntity(item entities.VotingRecord) votingRecordModel {
	return votingRecordModel{
		RecordID:    strings.TrimSpace(item.RecordID),
		VoterID:     strings.TrimSpace(item.VoterID),
		ElectionID:  strings.TrimSpace(item.ElectionID),
		PositionID:  normalizeOptionalString(item.PositionID),
		CandidateID: normalizeOptionalString(item.CandidateID),
		Status:      string(item.Status),
		VotedAt:     item.VotedAt.UTC(),
	}
}

// voterProjectionModel reads the voter directory's table for eligibility
// lookups. This service never writes it.
type voterProjectionModel struct {
	VoterID  string `gorm:"column:voter_id;primaryKey"`
	FullName string `gorm:"column:full_name"`
	Grade    string `gorm:"column:grade"`
	Section  string `gorm:"column:section"`
}

func (voterProjectionModel) TableName() string {
	return "voters"
}

type auditEntryModel struct {
	EntryID    string    `gorm:"column:entry_id;primaryKey"`
	EventID    string    `gorm:"column:event_id"`
	Action     string    `gorm:"column:action"`
	ElectionID string    `gorm:"column:election_id"`
	ActorID    string    `gorm:"column:actor_id"`
	Details    string    `gorm:"column:details"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (auditEntryModel) TableName() string {
	return "election_audit_log"
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "election_idempotency"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "election_event_dedup"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func normalizeOptionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.PositionRepository = (*Repository)(nil)
var _ ports.CandidateRepository = (*Repository)(nil)
var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.VoterDirectory = (*Repository)(nil)
var _ ports.AuditLogRepository = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.EventDedupStore = (*Repository)(nil)
