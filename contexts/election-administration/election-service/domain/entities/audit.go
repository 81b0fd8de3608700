package entities

import "time"

// AuditEntry is written by the audit recorder worker from consumed domain
// events. Commands never write audit rows inline; a failing audit trail must
// not fail a ballot.
type AuditEntry struct {
	EntryID    string
	EventID    string
	Action     string
	ElectionID string
	ActorID    string
	Details    string
	OccurredAt time.Time
}
