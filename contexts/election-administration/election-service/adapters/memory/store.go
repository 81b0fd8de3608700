package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
	contractsv1 "quorum/contracts/gen/events/v1"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

// Store backs every election-service port with in-process maps. It mirrors
// the transactional guarantees of the Postgres adapter closely enough for the
// use-case and transport tests, including duplicate-vote semantics.
type Store struct {
	mu sync.RWMutex

	elections  map[string]entities.Election
	positions  map[string]entities.Position
	candidates map[string]entities.Candidate
	records    []entities.VotingRecord
	voters     map[string]entities.VoterProfile
	auditLog   []entities.AuditEntry

	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRecord
	eventDedup  map[string]dedupRecord
}

func NewStore(seed []entities.Election) *Store {
	elections := make(map[string]entities.Election, len(seed))
	for _, item := range seed {
		elections[item.ElectionID] = item
	}
	return &Store{
		elections:   elections,
		positions:   make(map[string]entities.Position),
		candidates:  make(map[string]entities.Candidate),
		records:     make([]entities.VotingRecord, 0),
		voters:      make(map[string]entities.VoterProfile),
		auditLog:    make([]entities.AuditEntry, 0),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]outboxRecord),
		eventDedup:  make(map[string]dedupRecord),
	}
}

func (s *Store) SeedVoter(profile entities.VoterProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[strings.TrimSpace(profile.VoterID)] = profile
}

func (s *Store) SeedPosition(position entities.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[strings.TrimSpace(position.PositionID)] = position
}

func (s *Store) SeedCandidate(candidate entities.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
}

func (s *Store) CreateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.elections[election.ElectionID]; exists {
		return domainerrors.ErrInvalidElectionInput
	}
	s.elections[election.ElectionID] = election
	return nil
}

func (s *Store) UpdateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.elections[election.ElectionID]
	if !exists {
		return domainerrors.ErrElectionNotFound
	}
	// Status changes flow through SetElectionStatus and SyncElectionStatuses.
	election.Status = existing.Status
	s.elections[election.ElectionID] = election
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.elections[strings.TrimSpace(electionID)]
	if !exists {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return item, nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		items = append(items, election)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SetElectionStatus(
	_ context.Context,
	electionID string,
	status entities.ElectionStatus,
	locked bool,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	election, exists := s.elections[strings.TrimSpace(electionID)]
	if !exists {
		return domainerrors.ErrElectionNotFound
	}
	election.Status = status
	election.StatusLocked = locked
	election.UpdatedAt = time.Now().UTC()
	s.elections[election.ElectionID] = election
	return nil
}

func (s *Store) SyncElectionStatuses(
	_ context.Context,
	now time.Time,
	limit int,
) ([]ports.StatusTransition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamp := now.UTC()
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	candidates := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		if election.StatusLocked {
			continue
		}
		if election.StartDate == nil && election.EndDate == nil {
			continue
		}
		candidates = append(candidates, election)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	transitions := make([]ports.StatusTransition, 0)
	for _, election := range candidates {
		expected, derivable := election.ExpectedStatus(timestamp)
		if !derivable || expected == election.Status {
			continue
		}

		from := election.Status
		election.Status = expected
		election.UpdatedAt = timestamp
		s.elections[election.ElectionID] = election

		if err := s.appendStatusChangedOutboxLocked(election.ElectionID, from, expected, timestamp); err != nil {
			return nil, err
		}
		transitions = append(transitions, ports.StatusTransition{
			ElectionID: election.ElectionID,
			From:       from,
			To:         expected,
		})
	}
	return transitions, nil
}

func (s *Store) CreatePosition(_ context.Context, position entities.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.positions[position.PositionID]; exists {
		return domainerrors.ErrInvalidPositionInput
	}
	if _, exists := s.elections[position.ElectionID]; !exists {
		return domainerrors.ErrElectionNotFound
	}
	s.positions[position.PositionID] = position
	return nil
}

func (s *Store) UpdatePosition(_ context.Context, position entities.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.positions[position.PositionID]; !exists {
		return domainerrors.ErrPositionNotFound
	}
	s.positions[position.PositionID] = position
	return nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.positions[strings.TrimSpace(positionID)]
	if !exists {
		return entities.Position{}, domainerrors.ErrPositionNotFound
	}
	return item, nil
}

func (s *Store) ListPositionsByElection(_ context.Context, electionID string) ([]entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Position, 0)
	for _, position := range s.positions {
		if position.ElectionID == strings.TrimSpace(electionID) {
			items = append(items, position)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].DisplayOrder == items[j].DisplayOrder {
			return items[i].Title < items[j].Title
		}
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	return items, nil
}

func (s *Store) CreateCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.candidates[candidate.CandidateID]; exists {
		return domainerrors.ErrInvalidCandidateInput
	}
	if _, exists := s.elections[candidate.ElectionID]; !exists {
		return domainerrors.ErrElectionNotFound
	}
	s.candidates[candidate.CandidateID] = candidate
	return nil
}

func (s *Store) UpdateCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.candidates[candidate.CandidateID]
	if !exists {
		return domainerrors.ErrCandidateNotFound
	}
	candidate.VoteCount = existing.VoteCount
	s.candidates[candidate.CandidateID] = candidate
	return nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.candidates[strings.TrimSpace(candidateID)]
	if !exists {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return item, nil
}

func (s *Store) ListCandidatesByElection(_ context.Context, electionID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if candidate.ElectionID == strings.TrimSpace(electionID) {
			items = append(items, candidate)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].FullName < items[j].FullName
	})
	return items, nil
}

func (s *Store) CastBallot(
	_ context.Context,
	records []entities.VotingRecord,
	envelope ports.EventEnvelope,
) error {
	if len(records) == 0 {
		return domainerrors.ErrEmptyBallot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate everything before touching state so a rejected ballot leaves
	// no partial records behind, matching the Postgres transaction.
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if s.hasRecordLocked(record.VoterID, record.ElectionID, record.PositionID) {
			return domainerrors.ErrDuplicateVote
		}
		if record.PositionID != nil {
			key := record.VoterID + "\x00" + record.ElectionID + "\x00" + strings.TrimSpace(*record.PositionID)
			if _, dup := seen[key]; dup {
				return domainerrors.ErrDuplicateVote
			}
			seen[key] = struct{}{}
		}
	}

	for _, record := range records {
		s.records = append(s.records, record)
		if record.Status == entities.RecordStatusCast && record.CandidateID != nil {
			candidate, exists := s.candidates[strings.TrimSpace(*record.CandidateID)]
			if exists {
				candidate.VoteCount++
				candidate.UpdatedAt = record.VotedAt.UTC()
				s.candidates[candidate.CandidateID] = candidate
			}
		}
	}
	return s.appendOutboxLocked(envelope)
}

func (s *Store) HasVotedForPosition(_ context.Context, voterID, electionID, positionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trimmed := strings.TrimSpace(positionID)
	return s.hasRecordLocked(voterID, electionID, &trimmed), nil
}

func (s *Store) HasVotedInElection(_ context.Context, voterID, electionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.VoterID == strings.TrimSpace(voterID) && record.ElectionID == strings.TrimSpace(electionID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListVotedPositionIDs(_ context.Context, voterID, electionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0)
	for _, record := range s.records {
		if record.VoterID != strings.TrimSpace(voterID) || record.ElectionID != strings.TrimSpace(electionID) {
			continue
		}
		if record.PositionID == nil {
			continue
		}
		ids = append(ids, *record.PositionID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) CountCastVotesByCandidate(_ context.Context, electionID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tallies := make(map[string]int)
	for _, record := range s.records {
		if record.ElectionID != strings.TrimSpace(electionID) {
			continue
		}
		if record.Status != entities.RecordStatusCast || record.CandidateID == nil {
			continue
		}
		tallies[*record.CandidateID]++
	}
	return tallies, nil
}

func (s *Store) CountCastRecords(_ context.Context, electionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	electionID = strings.TrimSpace(electionID)
	count := 0
	for _, record := range s.records {
		if record.Status != entities.RecordStatusCast {
			continue
		}
		if electionID != "" && record.ElectionID != electionID {
			continue
		}
		count++
	}
	return count, nil
}

func (s *Store) CountDistinctVoters(_ context.Context, electionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	electionID = strings.TrimSpace(electionID)
	voters := make(map[string]struct{})
	for _, record := range s.records {
		if electionID != "" && record.ElectionID != electionID {
			continue
		}
		voters[record.VoterID] = struct{}{}
	}
	return len(voters), nil
}

func (s *Store) GetVoterProfile(_ context.Context, voterID string) (entities.VoterProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.voters[strings.TrimSpace(voterID)]
	if !exists {
		return entities.VoterProfile{}, domainerrors.ErrVoterNotFound
	}
	return profile, nil
}

func (s *Store) CountVoters(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.voters), nil
}

func (s *Store) AppendEntry(_ context.Context, entry entities.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.auditLog {
		if existing.EntryID == entry.EntryID {
			return domainerrors.ErrIdempotencyKeyConflict
		}
	}
	s.auditLog = append(s.auditLog, entry)
	return nil
}

func (s *Store) ListEntries(_ context.Context, limit int) ([]entities.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.AuditEntry, 0, len(s.auditLog))
	items = append(items, s.auditLog...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.idempotency[record.Key]
	if exists {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		if !bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendOutboxLocked(envelope)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrInvalidElectionInput
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) ReserveEvent(
	_ context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(eventID)
	existing, ok := s.eventDedup[key]
	if ok {
		if !existing.expiresAt.IsZero() && time.Now().UTC().After(existing.expiresAt.UTC()) {
			delete(s.eventDedup, key)
		} else {
			if existing.payloadHash != strings.TrimSpace(payloadHash) {
				return false, domainerrors.ErrIdempotencyKeyConflict
			}
			return true, nil
		}
	}

	s.eventDedup[key] = dedupRecord{
		payloadHash: strings.TrimSpace(payloadHash),
		expiresAt:   expiresAt.UTC(),
	}
	return false, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) hasRecordLocked(voterID, electionID string, positionID *string) bool {
	voterID = strings.TrimSpace(voterID)
	electionID = strings.TrimSpace(electionID)
	for _, record := range s.records {
		if record.VoterID != voterID || record.ElectionID != electionID {
			continue
		}
		if positionID == nil {
			if record.PositionID == nil {
				return true
			}
			continue
		}
		if record.PositionID != nil && *record.PositionID == strings.TrimSpace(*positionID) {
			return true
		}
	}
	return false
}

func (s *Store) appendOutboxLocked(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) appendStatusChangedOutboxLocked(
	electionID string,
	from, to entities.ElectionStatus,
	occurredAt time.Time,
) error {
	data, err := json.Marshal(map[string]any{
		"election_id": electionID,
		"from":        string(from),
		"to":          string(to),
		"forced":      false,
		"locked":      false,
	})
	if err != nil {
		return err
	}
	eventID := uuid.NewString()
	return s.appendOutboxLocked(ports.EventEnvelope{
		EventID:          eventID,
		EventType:        contractsv1.EventTypeElectionStatusChanged,
		OccurredAt:       occurredAt,
		SourceService:    "election-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     electionID,
		Data:             data,
	})
}

var _ ports.ElectionRepository = (*Store)(nil)
var _ ports.PositionRepository = (*Store)(nil)
var _ ports.CandidateRepository = (*Store)(nil)
var _ ports.BallotRepository = (*Store)(nil)
var _ ports.VoterDirectory = (*Store)(nil)
var _ ports.AuditLogRepository = (*Store)(nil)
var _ ports.IdempotencyStore = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.EventDedupStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
