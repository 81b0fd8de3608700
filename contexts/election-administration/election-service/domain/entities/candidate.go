package entities

import "time"

type Candidate struct {
	CandidateID string
	ElectionID  string
	PositionID  *string
	FullName    string
	Party       string

	// VoteCount is a denormalized cache maintained at cast time. It is never
	// authoritative; tallies come from the ballot log.
	VoteCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Candidate) Assigned() bool {
	return c.PositionID != nil && *c.PositionID != ""
}
