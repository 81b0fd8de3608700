package errors

import "errors"

var (
	ErrElectionNotFound  = errors.New("election not found")
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrVoterNotFound     = errors.New("voter not found")

	ErrInvalidElectionInput  = errors.New("invalid election input")
	ErrInvalidPositionInput  = errors.New("invalid position input")
	ErrInvalidCandidateInput = errors.New("invalid candidate input")
	ErrInvalidStatus         = errors.New("unknown election status")
	ErrStartDateInPast       = errors.New("start date cannot be in the past")
	ErrEndDateInPast         = errors.New("end date cannot be in the past")
	ErrEndDateBeforeStart    = errors.New("end date cannot be earlier than the start date")
	ErrActivateOutsideDates  = errors.New("cannot activate an election outside its date range")
	ErrFinalizeBeforeEnd     = errors.New("cannot finalize an election before its end date")
	ErrRevertToUpcoming      = errors.New("cannot revert an election to upcoming after its start date")

	ErrEmptyBallot          = errors.New("ballot must contain at least one selection")
	ErrVoterNotEligible     = errors.New("voter is not eligible for this election")
	ErrAlreadyVotedPosition = errors.New("already voted for this position in this election")
	ErrAlreadyVotedElection = errors.New("already voted in this election")
	ErrBallotAlreadyVoted   = errors.New("already voted for one or more positions in this election")

	// ErrDuplicateVote is the storage-level conflict surfaced by the ballot
	// repository for both the in-transaction pre-check and the uniqueness
	// constraint. Commands translate it to the operation's public sentinel so
	// both paths look identical to callers.
	ErrDuplicateVote = errors.New("duplicate vote")

	ErrElectionDeletionDisabled = errors.New("election deletion is disabled, set status to finalized instead")

	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
)
