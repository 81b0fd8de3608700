package ports

import (
	"context"
	"time"

	"quorum/contexts/election-administration/election-service/domain/entities"
	contractsv1 "quorum/contracts/gen/events/v1"
)

type ElectionRepository interface {
	CreateElection(ctx context.Context, election entities.Election) error
	UpdateElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
	SetElectionStatus(ctx context.Context, electionID string, status entities.ElectionStatus, locked bool) error
	// SyncElectionStatuses re-derives the status of every non-locked election
	// whose stored value drifted from its date-derived one, persisting each
	// change and its status-changed outbox row in one transaction.
	SyncElectionStatuses(ctx context.Context, now time.Time, limit int) ([]StatusTransition, error)
}

type StatusTransition struct {
	ElectionID string
	From       entities.ElectionStatus
	To         entities.ElectionStatus
}

type PositionRepository interface {
	CreatePosition(ctx context.Context, position entities.Position) error
	UpdatePosition(ctx context.Context, position entities.Position) error
	GetPosition(ctx context.Context, positionID string) (entities.Position, error)
	ListPositionsByElection(ctx context.Context, electionID string) ([]entities.Position, error)
}

type CandidateRepository interface {
	CreateCandidate(ctx context.Context, candidate entities.Candidate) error
	UpdateCandidate(ctx context.Context, candidate entities.Candidate) error
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidatesByElection(ctx context.Context, electionID string) ([]entities.Candidate, error)
}

type BallotRepository interface {
	// CastBallot commits all records, the vote-count cache increments, and the
	// ballot-cast outbox row in a single transaction. It returns
	// ErrDuplicateVote both when the in-transaction pre-check finds an earlier
	// record for one of the positions and when the uniqueness constraint
	// rejects the insert at commit time.
	CastBallot(ctx context.Context, records []entities.VotingRecord, envelope EventEnvelope) error
	HasVotedForPosition(ctx context.Context, voterID, electionID, positionID string) (bool, error)
	HasVotedInElection(ctx context.Context, voterID, electionID string) (bool, error)
	ListVotedPositionIDs(ctx context.Context, voterID, electionID string) ([]string, error)
	// CountCastVotesByCandidate is the authoritative tally: cast records with a
	// candidate, grouped by candidate ID. An empty election ID counts nothing.
	CountCastVotesByCandidate(ctx context.Context, electionID string) (map[string]int, error)
	// CountCastRecords and CountDistinctVoters accept an empty election ID to
	// count across all elections.
	CountCastRecords(ctx context.Context, electionID string) (int, error)
	CountDistinctVoters(ctx context.Context, electionID string) (int, error)
}

// VoterDirectory is the eligibility data source: grade/section lookups and the
// census used by participation stats.
type VoterDirectory interface {
	GetVoterProfile(ctx context.Context, voterID string) (entities.VoterProfile, error)
	CountVoters(ctx context.Context) (int, error)
}

type AuditLogRepository interface {
	AppendEntry(ctx context.Context, entry entities.AuditEntry) error
	ListEntries(ctx context.Context, limit int) ([]entities.AuditEntry, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}
