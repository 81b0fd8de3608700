package v1

// Event types produced by the election-administration context. Consumers key
// subscriptions and dedup off these values; treat them as frozen identifiers.
const (
	EventTypeElectionCreated       = "election.created"
	EventTypeElectionUpdated       = "election.updated"
	EventTypeElectionStatusChanged = "election.status_changed"
	EventTypeElectionBallotCast    = "election.ballot_cast"
)
