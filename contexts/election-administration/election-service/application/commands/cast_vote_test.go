package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"quorum/contexts/election-administration/election-service/adapters/memory"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
)

func newVoteFixture(t *testing.T) (*memory.Store, CastVoteUseCase) {
	t.Helper()
	now := time.Now().UTC()
	store := memory.NewStore([]entities.Election{
		{ElectionID: "elc_main", Title: "Club Officers", Status: entities.ElectionStatusActive, CreatedAt: now, UpdatedAt: now},
		{ElectionID: "elc_other", Title: "Other Election", Status: entities.ElectionStatusActive, CreatedAt: now, UpdatedAt: now},
	})
	store.SeedVoter(entities.VoterProfile{VoterID: "vtr_1", Grade: "8", Section: "B"})
	store.SeedPosition(entities.Position{PositionID: "pos_captain", ElectionID: "elc_main", Title: "Captain", DisplayOrder: 1})
	store.SeedCandidate(entities.Candidate{CandidateID: "cnd_pos", ElectionID: "elc_main", PositionID: strPtr("pos_captain"), FullName: "Mia Chan"})
	store.SeedCandidate(entities.Candidate{CandidateID: "cnd_general", ElectionID: "elc_main", FullName: "Raj Patel"})
	store.SeedCandidate(entities.Candidate{CandidateID: "cnd_foreign", ElectionID: "elc_other", FullName: "Outside Candidate"})

	uc := CastVoteUseCase{
		Elections:   store,
		Candidates:  store,
		Ballots:     store,
		Voters:      store,
		Clock:       store,
		IDGenerator: store,
	}
	return store, uc
}

func TestCastVoteUsesCandidatePosition(t *testing.T) {
	store, uc := newVoteFixture(t)

	result, err := uc.Execute(context.Background(), CastVoteCommand{VoterID: "vtr_1", ElectionID: "elc_main", CandidateID: "cnd_pos"})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if result.Record.PositionID == nil || *result.Record.PositionID != "pos_captain" {
		t.Fatalf("record should carry the candidate's position, got %+v", result.Record)
	}
	if result.Record.Status != entities.RecordStatusCast {
		t.Fatalf("expected cast status, got %s", result.Record.Status)
	}

	_, err = uc.Execute(context.Background(), CastVoteCommand{VoterID: "vtr_1", ElectionID: "elc_main", CandidateID: "cnd_pos"})
	if !errors.Is(err, domainerrors.ErrAlreadyVotedPosition) {
		t.Fatalf("expected ErrAlreadyVotedPosition, got %v", err)
	}

	candidate, err := store.GetCandidate(context.Background(), "cnd_pos")
	if err != nil {
		t.Fatalf("get candidate: %v", err)
	}
	if candidate.VoteCount != 1 {
		t.Fatalf("expected vote_count 1, got %d", candidate.VoteCount)
	}
}

func TestCastVoteGeneralCandidateScopesToElection(t *testing.T) {
	_, uc := newVoteFixture(t)

	if _, err := uc.Execute(context.Background(), CastVoteCommand{VoterID: "vtr_1", ElectionID: "elc_main", CandidateID: "cnd_general"}); err != nil {
		t.Fatalf("general vote failed: %v", err)
	}
	_, err := uc.Execute(context.Background(), CastVoteCommand{VoterID: "vtr_1", ElectionID: "elc_main", CandidateID: "cnd_general"})
	if !errors.Is(err, domainerrors.ErrAlreadyVotedElection) {
		t.Fatalf("expected ErrAlreadyVotedElection, got %v", err)
	}
}

func TestCastVoteRejectsForeignAndUnknownCandidates(t *testing.T) {
	_, uc := newVoteFixture(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CastVoteCommand{VoterID: "vtr_1", ElectionID: "elc_main", CandidateID: "cnd_foreign"})
	if !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("cross-election candidate must read as not found, got %v", err)
	}
	_, err = uc.Execute(ctx, CastVoteCommand{VoterID: "vtr_1", ElectionID: "elc_main", CandidateID: "cnd_missing"})
	if !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}
