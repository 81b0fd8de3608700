package entities

import "time"

type RecordStatus string

const (
	RecordStatusCast    RecordStatus = "cast"
	RecordStatusSpoiled RecordStatus = "spoiled"
)

// BallotLine is one selection within a ballot submission: a position paired
// with a candidate, or with nil for an explicit abstain.
type BallotLine struct {
	PositionID  *string
	CandidateID *string
}

func (l BallotLine) Abstain() bool {
	return l.CandidateID == nil || *l.CandidateID == ""
}

// VotingRecord is one committed ballot line. Records are append-only: they
// are written once at cast time and never updated or deleted, which makes the
// log the source of truth for every tally.
type VotingRecord struct {
	RecordID    string
	VoterID     string
	ElectionID  string
	PositionID  *string
	CandidateID *string
	Status      RecordStatus
	VotedAt     time.Time
}

// BallotCompletion summarizes how much of an election's ballot a voter has
// submitted so far.
type BallotCompletion struct {
	TotalPositions   int
	VotedPositions   int
	Completed        bool
	VotedPositionIDs []string
}
