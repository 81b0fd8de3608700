package queries

import (
	"context"
	"errors"
	"testing"

	"quorum/contexts/election-administration/election-service/application/commands"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
)

func TestBallotCompletionTracksPartialBallots(t *testing.T) {
	store, caster, _ := newResultsFixture(t)
	uc := VoterStatusUseCase{Elections: store, Positions: store, Ballots: store}
	ctx := context.Background()

	completion, err := uc.BallotCompletion(ctx, "vtr_1", "elc_results")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if completion.TotalPositions != 3 || completion.VotedPositions != 0 || completion.Completed {
		t.Fatalf("fresh voter should have an empty completion, got %+v", completion)
	}

	castFor(t, store, caster, "vtr_1", map[string]string{"pos_pres": "cnd_a", "pos_sec": "cnd_c"})

	completion, err = uc.BallotCompletion(ctx, "vtr_1", "elc_results")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if completion.VotedPositions != 2 || completion.Completed {
		t.Fatalf("two of three positions voted, got %+v", completion)
	}

	// An explicit abstain on the last position still counts as covered.
	if _, err := caster.Execute(ctx, commands.CastBallotCommand{
		VoterID:    "vtr_1",
		ElectionID: "elc_results",
		Lines:      []entities.BallotLine{{PositionID: strPtr("pos_aud")}},
	}); err != nil {
		t.Fatalf("abstain failed: %v", err)
	}
	completion, err = uc.BallotCompletion(ctx, "vtr_1", "elc_results")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if !completion.Completed || completion.VotedPositions != 3 {
		t.Fatalf("expected a completed ballot, got %+v", completion)
	}
}

func TestHasVotedForPosition(t *testing.T) {
	store, caster, _ := newResultsFixture(t)
	uc := VoterStatusUseCase{Elections: store, Positions: store, Ballots: store}
	ctx := context.Background()

	castFor(t, store, caster, "vtr_9", map[string]string{"pos_pres": "cnd_a"})

	voted, err := uc.HasVotedForPosition(ctx, "vtr_9", "elc_results", "pos_pres")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !voted {
		t.Fatal("record exists, expected voted=true")
	}
	voted, err = uc.HasVotedForPosition(ctx, "vtr_9", "elc_results", "pos_sec")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if voted {
		t.Fatal("no record for pos_sec, expected voted=false")
	}
	if _, err := uc.HasVotedForPosition(ctx, "vtr_9", "elc_missing", "pos_pres"); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}
