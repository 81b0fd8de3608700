package workers

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
	"quorum/contexts/election-administration/election-service/ports"
	contractsv1 "quorum/contracts/gen/events/v1"
)

const defaultAuditConsumerGroup = "election-service-audit-recorder-cg"

// auditedTopics are the election event streams the recorder turns into
// append-only audit entries.
var auditedTopics = []string{
	contractsv1.EventTypeElectionCreated,
	contractsv1.EventTypeElectionUpdated,
	contractsv1.EventTypeElectionStatusChanged,
	contractsv1.EventTypeElectionBallotCast,
}

// AuditRecorder projects election events into the audit log. Administrative
// actions are audited through the same event stream that downstream services
// consume, so the log never diverges from what actually happened.
type AuditRecorder struct {
	Subscriber    ports.EventSubscriber
	Audit         ports.AuditLogRepository
	Dedup         ports.EventDedupStore
	IDs           ports.IDGenerator
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Disabled      bool
	Logger        *slog.Logger
}

func (c AuditRecorder) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("audit recorder disabled by feature flag",
			"event", "election_audit_recorder_disabled",
			"module", "election-administration/election-service",
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultAuditConsumerGroup
	}
	for _, topic := range auditedTopics {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.handleEvent); err != nil {
			return err
		}
	}
	return nil
}

func (c AuditRecorder) handleEvent(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}

	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), now.Add(c.dedupTTL()))
	if err != nil {
		logger.Error("audit event dedupe failed",
			"event", "election_audit_dedupe_failed",
			"module", "election-administration/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	if alreadyProcessed {
		logger.Debug("audit event already recorded",
			"event", "election_audit_replayed",
			"module", "election-administration/election-service",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	var payload struct {
		ElectionID string `json:"election_id"`
		VoterID    string `json:"voter_id"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("audit event decode failed",
			"event", "election_audit_decode_failed",
			"module", "election-administration/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	electionID := strings.TrimSpace(payload.ElectionID)
	if electionID == "" {
		electionID = strings.TrimSpace(event.PartitionKey)
	}

	entryID, err := c.IDs.NewID(ctx)
	if err != nil {
		return err
	}
	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = now
	}
	entry := entities.AuditEntry{
		EntryID:    entryID,
		EventID:    event.EventID,
		Action:     event.EventType,
		ElectionID: electionID,
		ActorID:    strings.TrimSpace(payload.VoterID),
		Details:    string(event.Data),
		OccurredAt: occurredAt,
	}
	if err := c.Audit.AppendEntry(ctx, entry); err != nil {
		logger.Error("audit entry append failed",
			"event", "election_audit_append_failed",
			"module", "election-administration/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"election_id", electionID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("audit entry recorded",
		"event", "election_audit_recorded",
		"module", "election-administration/election-service",
		"layer", "worker",
		"event_id", event.EventID,
		"action", event.EventType,
		"election_id", electionID,
	)
	return nil
}

func (c AuditRecorder) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
