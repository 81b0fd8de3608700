package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quorum/contexts/election-administration/election-service/adapters/memory"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
	"quorum/contexts/election-administration/election-service/ports"
)

func strPtr(v string) *string { return &v }

func newBallotFixture(t *testing.T) (*memory.Store, CastBallotUseCase) {
	t.Helper()
	now := time.Now().UTC()
	store := memory.NewStore([]entities.Election{{
		ElectionID: "elc_student_council",
		Title:      "Student Council 2026",
		Status:     entities.ElectionStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}})
	store.SeedVoter(entities.VoterProfile{VoterID: "vtr_1", FullName: "Ana Cruz", Grade: "9", Section: "A"})
	store.SeedPosition(entities.Position{PositionID: "pos_president", ElectionID: "elc_student_council", Title: "President", DisplayOrder: 1})
	store.SeedPosition(entities.Position{PositionID: "pos_secretary", ElectionID: "elc_student_council", Title: "Secretary", DisplayOrder: 2})
	store.SeedCandidate(entities.Candidate{CandidateID: "cnd_7", ElectionID: "elc_student_council", PositionID: strPtr("pos_president"), FullName: "Dana Reyes"})
	store.SeedCandidate(entities.Candidate{CandidateID: "cnd_8", ElectionID: "elc_student_council", PositionID: strPtr("pos_secretary"), FullName: "Leo Tan"})

	uc := CastBallotUseCase{
		Elections:   store,
		Candidates:  store,
		Ballots:     store,
		Voters:      store,
		Clock:       store,
		IDGenerator: store,
	}
	return store, uc
}

func TestCastBallotMixedAbstainAndCast(t *testing.T) {
	store, uc := newBallotFixture(t)

	result, err := uc.Execute(context.Background(), CastBallotCommand{
		VoterID:    "vtr_1",
		ElectionID: "elc_student_council",
		Lines: []entities.BallotLine{
			{PositionID: strPtr("pos_president"), CandidateID: nil},
			{PositionID: strPtr("pos_secretary"), CandidateID: strPtr("cnd_8")},
		},
	})
	if err != nil {
		t.Fatalf("cast ballot failed: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}

	var spoiled, cast int
	for _, record := range result.Records {
		switch record.Status {
		case entities.RecordStatusSpoiled:
			spoiled++
			if record.CandidateID != nil {
				t.Fatalf("spoiled record must carry no candidate, got %v", *record.CandidateID)
			}
		case entities.RecordStatusCast:
			cast++
			if record.CandidateID == nil || *record.CandidateID != "cnd_8" {
				t.Fatalf("cast record should reference cnd_8, got %+v", record)
			}
		}
	}
	if spoiled != 1 || cast != 1 {
		t.Fatalf("expected one spoiled and one cast record, got spoiled=%d cast=%d", spoiled, cast)
	}

	candidate, err := store.GetCandidate(context.Background(), "cnd_8")
	if err != nil {
		t.Fatalf("get candidate: %v", err)
	}
	if candidate.VoteCount != 1 {
		t.Fatalf("expected vote_count cache 1, got %d", candidate.VoteCount)
	}
	abstained, err := store.GetCandidate(context.Background(), "cnd_7")
	if err != nil {
		t.Fatalf("get candidate: %v", err)
	}
	if abstained.VoteCount != 0 {
		t.Fatalf("abstain must not touch the cache, got %d", abstained.VoteCount)
	}
}

func TestCastBallotDuplicateSubmissionConflicts(t *testing.T) {
	store, uc := newBallotFixture(t)
	line := []entities.BallotLine{{PositionID: strPtr("pos_president"), CandidateID: strPtr("cnd_7")}}

	if _, err := uc.Execute(context.Background(), CastBallotCommand{VoterID: "vtr_1", ElectionID: "elc_student_council", Lines: line}); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}
	_, err := uc.Execute(context.Background(), CastBallotCommand{VoterID: "vtr_1", ElectionID: "elc_student_council", Lines: line})
	if !errors.Is(err, domainerrors.ErrBallotAlreadyVoted) {
		t.Fatalf("expected ErrBallotAlreadyVoted, got %v", err)
	}

	count, err := store.CountCastRecords(context.Background(), "elc_student_council")
	if err != nil {
		t.Fatalf("count records: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one committed record, got %d", count)
	}
}

func TestCastBallotAllOrNothing(t *testing.T) {
	store, uc := newBallotFixture(t)

	if _, err := uc.Execute(context.Background(), CastBallotCommand{
		VoterID:    "vtr_1",
		ElectionID: "elc_student_council",
		Lines:      []entities.BallotLine{{PositionID: strPtr("pos_president"), CandidateID: strPtr("cnd_7")}},
	}); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}

	// Second submission mixes a fresh position with an already-voted one;
	// the fresh line must not slip through.
	_, err := uc.Execute(context.Background(), CastBallotCommand{
		VoterID:    "vtr_1",
		ElectionID: "elc_student_council",
		Lines: []entities.BallotLine{
			{PositionID: strPtr("pos_secretary"), CandidateID: strPtr("cnd_8")},
			{PositionID: strPtr("pos_president"), CandidateID: strPtr("cnd_7")},
		},
	})
	if !errors.Is(err, domainerrors.ErrBallotAlreadyVoted) {
		t.Fatalf("expected ErrBallotAlreadyVoted, got %v", err)
	}

	voted, err := store.HasVotedForPosition(context.Background(), "vtr_1", "elc_student_council", "pos_secretary")
	if err != nil {
		t.Fatalf("has voted: %v", err)
	}
	if voted {
		t.Fatal("rejected ballot must not leave a partial record behind")
	}

	// A later separate submission for the open position still succeeds.
	if _, err := uc.Execute(context.Background(), CastBallotCommand{
		VoterID:    "vtr_1",
		ElectionID: "elc_student_council",
		Lines:      []entities.BallotLine{{PositionID: strPtr("pos_secretary"), CandidateID: strPtr("cnd_8")}},
	}); err != nil {
		t.Fatalf("follow-up cast failed: %v", err)
	}
}

func TestCastBallotValidation(t *testing.T) {
	_, uc := newBallotFixture(t)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, CastBallotCommand{VoterID: "vtr_1", ElectionID: "elc_student_council"}); !errors.Is(err, domainerrors.ErrEmptyBallot) {
		t.Fatalf("expected ErrEmptyBallot, got %v", err)
	}
	_, err := uc.Execute(ctx, CastBallotCommand{
		VoterID:    "vtr_1",
		ElectionID: "elc_student_council",
		Lines:      []entities.BallotLine{{PositionID: strPtr("pos_president"), CandidateID: strPtr("cnd_unknown")}},
	})
	if !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
	_, err = uc.Execute(ctx, CastBallotCommand{
		VoterID:    "vtr_unknown",
		ElectionID: "elc_student_council",
		Lines:      []entities.BallotLine{{PositionID: strPtr("pos_president"), CandidateID: strPtr("cnd_7")}},
	})
	if !errors.Is(err, domainerrors.ErrVoterNotFound) {
		t.Fatalf("expected ErrVoterNotFound, got %v", err)
	}
}

func TestCastBallotRejectsIneligibleVoter(t *testing.T) {
	store, uc := newBallotFixture(t)
	grade := 12
	election, err := store.GetElection(context.Background(), "elc_student_council")
	if err != nil {
		t.Fatalf("get election: %v", err)
	}
	election.AllowedGrade = &grade
	if err := store.UpdateElection(context.Background(), election); err != nil {
		t.Fatalf("update election: %v", err)
	}

	_, err = uc.Execute(context.Background(), CastBallotCommand{
		VoterID:    "vtr_1",
		ElectionID: "elc_student_council",
		Lines:      []entities.BallotLine{{PositionID: strPtr("pos_president"), CandidateID: strPtr("cnd_7")}},
	})
	if !errors.Is(err, domainerrors.ErrVoterNotEligible) {
		t.Fatalf("expected ErrVoterNotEligible, got %v", err)
	}
}

func TestCastBallotConcurrentDuplicatesLoseCleanly(t *testing.T) {
	store, uc := newBallotFixture(t)
	line := []entities.BallotLine{{PositionID: strPtr("pos_president"), CandidateID: strPtr("cnd_7")}}

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), CastBallotCommand{
				VoterID:    "vtr_1",
				ElectionID: "elc_student_council",
				Lines:      line,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var accepted, conflicted int
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, domainerrors.ErrBallotAlreadyVoted):
			conflicted++
		default:
			t.Fatalf("unexpected error under concurrency: %v", err)
		}
	}
	if accepted != 1 {
		t.Fatalf("expected exactly one accepted submission, got %d", accepted)
	}
	if conflicted != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicted)
	}

	count, err := store.CountCastRecords(context.Background(), "elc_student_council")
	if err != nil {
		t.Fatalf("count records: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single committed record, got %d", count)
	}
	candidate, err := store.GetCandidate(context.Background(), "cnd_7")
	if err != nil {
		t.Fatalf("get candidate: %v", err)
	}
	if candidate.VoteCount != 1 {
		t.Fatalf("cache incremented %d times for one accepted vote", candidate.VoteCount)
	}
}

// raceLosingBallots simulates losing the storage race: the pre-check sees no
// record but the transaction fails on the uniqueness constraint.
type raceLosingBallots struct {
	ports.BallotRepository
}

func (raceLosingBallots) HasVotedForPosition(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (raceLosingBallots) CastBallot(context.Context, []entities.VotingRecord, ports.EventEnvelope) error {
	return domainerrors.ErrDuplicateVote
}

func TestCastBallotConstraintViolationMatchesPrecheckRejection(t *testing.T) {
	store, uc := newBallotFixture(t)
	uc.Ballots = raceLosingBallots{BallotRepository: store}

	_, err := uc.Execute(context.Background(), CastBallotCommand{
		VoterID:    "vtr_1",
		ElectionID: "elc_student_council",
		Lines:      []entities.BallotLine{{PositionID: strPtr("pos_president"), CandidateID: strPtr("cnd_7")}},
	})
	if !errors.Is(err, domainerrors.ErrBallotAlreadyVoted) {
		t.Fatalf("constraint path must surface the same conflict as the pre-check, got %v", err)
	}
}
