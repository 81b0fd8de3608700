package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Status         string `json:"status"`
	AllowedGrade   *int   `json:"allowed_grade"`
	AllowedSection string `json:"allowed_section"`
}

// UpdateElectionRequest uses pointers for partial updates. A date field set
// to the empty string clears that date; clear_allowed_grade removes the grade
// restriction because JSON cannot distinguish a null grade from an absent one.
type UpdateElectionRequest struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	StartDate         *string `json:"start_date"`
	EndDate           *string `json:"end_date"`
	AllowedGrade      *int    `json:"allowed_grade"`
	ClearAllowedGrade bool    `json:"clear_allowed_grade"`
	AllowedSection    *string `json:"allowed_section"`
	StatusLocked      *bool   `json:"status_locked"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
	Force  bool   `json:"force"`
}

type CreatePositionRequest struct {
	Title        string `json:"title"`
	DisplayOrder int    `json:"display_order"`
}

type UpdatePositionRequest struct {
	Title        *string `json:"title"`
	DisplayOrder *int    `json:"display_order"`
}

type CreateCandidateRequest struct {
	PositionID *string `json:"position_id"`
	FullName   string  `json:"full_name"`
	Party      string  `json:"party"`
}

type UpdateCandidateRequest struct {
	FullName      *string `json:"full_name"`
	Party         *string `json:"party"`
	PositionID    *string `json:"position_id"`
	ClearPosition bool    `json:"clear_position"`
}

type BallotLineDTO struct {
	PositionID  *string `json:"position_id"`
	CandidateID *string `json:"candidate_id"`
}

type CastBallotRequest struct {
	VoterID string          `json:"voter_id"`
	Lines   []BallotLineDTO `json:"lines"`
}

type CastVoteRequest struct {
	VoterID     string `json:"voter_id"`
	CandidateID string `json:"candidate_id"`
}

type ElectionDTO struct {
	ElectionID     string `json:"election_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	Status         string `json:"status"`
	StatusLocked   bool   `json:"status_locked"`
	AllowedGrade   *int   `json:"allowed_grade,omitempty"`
	AllowedSection string `json:"allowed_section,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type PositionDTO struct {
	PositionID   string `json:"position_id"`
	ElectionID   string `json:"election_id"`
	Title        string `json:"title"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type CandidateDTO struct {
	CandidateID string  `json:"candidate_id"`
	ElectionID  string  `json:"election_id"`
	PositionID  *string `json:"position_id,omitempty"`
	FullName    string  `json:"full_name"`
	Party       string  `json:"party,omitempty"`
	VoteCount   int     `json:"vote_count"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type VotingRecordDTO struct {
	RecordID    string  `json:"record_id"`
	VoterID     string  `json:"voter_id"`
	ElectionID  string  `json:"election_id"`
	PositionID  *string `json:"position_id,omitempty"`
	CandidateID *string `json:"candidate_id,omitempty"`
	Status      string  `json:"status"`
	VotedAt     string  `json:"voted_at"`
}

type CreateElectionResponse struct {
	Election ElectionDTO `json:"election"`
	Replayed bool        `json:"replayed"`
}

type ListElectionsResponse struct {
	Items []ElectionDTO `json:"items"`
}

type GetElectionResponse struct {
	Election   ElectionDTO    `json:"election"`
	Positions  []PositionDTO  `json:"positions"`
	Candidates []CandidateDTO `json:"candidates"`
}

type UpdateElectionResponse struct {
	Election ElectionDTO `json:"election"`
}

type SetStatusResponse struct {
	ElectionID string `json:"election_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Forced     bool   `json:"forced"`
}

type PositionResponse struct {
	Position PositionDTO `json:"position"`
}

type ListPositionsResponse struct {
	Items []PositionDTO `json:"items"`
}

type CandidateResponse struct {
	Candidate CandidateDTO `json:"candidate"`
}

type ListCandidatesResponse struct {
	Items []CandidateDTO `json:"items"`
}

type CastBallotResponse struct {
	Records []VotingRecordDTO `json:"records"`
}

type CastVoteResponse struct {
	Record VotingRecordDTO `json:"record"`
}

type CandidateTallyDTO struct {
	Candidate CandidateDTO `json:"candidate"`
	Votes     int          `json:"votes"`
	Percent   float64      `json:"percent"`
}

type PositionResultDTO struct {
	PositionID   string              `json:"position_id,omitempty"`
	Title        string              `json:"title"`
	DisplayOrder int                 `json:"display_order"`
	TotalVotes   int                 `json:"total_votes"`
	Candidates   []CandidateTallyDTO `json:"candidates"`
	WinnerIDs    []string            `json:"winner_ids,omitempty"`
	Tie          bool                `json:"tie"`
}

type ResultsResponse struct {
	ElectionID     string              `json:"election_id"`
	Title          string              `json:"title"`
	Status         string              `json:"status"`
	Positions      []PositionResultDTO `json:"positions"`
	TotalCastVotes int                 `json:"total_cast_votes"`
	TallySource    string              `json:"tally_source"`
}

type BallotStatusResponse struct {
	TotalPositions   int      `json:"total_positions"`
	VotedPositions   int      `json:"voted_positions"`
	Completed        bool     `json:"completed"`
	VotedPositionIDs []string `json:"voted_position_ids"`
}

type VoteStatusResponse struct {
	HasVoted bool `json:"has_voted"`
}

type ParticipationResponse struct {
	TotalVoters       int     `json:"total_voters"`
	VotersWhoVoted    int     `json:"voters_who_voted"`
	TotalCastVotes    int     `json:"total_cast_votes"`
	ActiveElections   int     `json:"active_elections"`
	ParticipationRate float64 `json:"participation_rate"`
}

type AuditEntryDTO struct {
	EntryID    string `json:"entry_id"`
	EventID    string `json:"event_id"`
	Action     string `json:"action"`
	ElectionID string `json:"election_id,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
	Details    string `json:"details,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type AuditLogResponse struct {
	Items []AuditEntryDTO `json:"items"`
}
