package workers

import (
	"context"
	"testing"
	"time"

	"quorum/contexts/election-administration/election-service/adapters/memory"
	"quorum/contexts/election-administration/election-service/domain/entities"
	contractsv1 "quorum/contracts/gen/events/v1"
)

func timePtr(value time.Time) *time.Time { return &value }

func TestStatusSweeperReconcilesDriftedElections(t *testing.T) {
	now := time.Now().UTC()
	store := memory.NewStore([]entities.Election{
		{
			ElectionID: "elc_opening",
			Title:      "Opens",
			StartDate:  timePtr(now.AddDate(0, 0, -1)),
			EndDate:    timePtr(now.AddDate(0, 0, 1)),
			Status:     entities.ElectionStatusUpcoming,
		},
		{
			ElectionID: "elc_closing",
			Title:      "Closed",
			StartDate:  timePtr(now.AddDate(0, 0, -5)),
			EndDate:    timePtr(now.AddDate(0, 0, -2)),
			Status:     entities.ElectionStatusActive,
		},
		{
			ElectionID:   "elc_held",
			Title:        "Held",
			StartDate:    timePtr(now.AddDate(0, 0, -1)),
			EndDate:      timePtr(now.AddDate(0, 0, 1)),
			Status:       entities.ElectionStatusUpcoming,
			StatusLocked: true,
		},
	})
	sweeper := StatusSweeper{Elections: store, Clock: store}
	ctx := context.Background()

	if err := sweeper.RunOnce(ctx); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	opening, _ := store.GetElection(ctx, "elc_opening")
	if opening.Status != entities.ElectionStatusActive {
		t.Fatalf("expected elc_opening active, got %s", opening.Status)
	}
	closing, _ := store.GetElection(ctx, "elc_closing")
	if closing.Status != entities.ElectionStatusFinalized {
		t.Fatalf("expected elc_closing finalized, got %s", closing.Status)
	}
	held, _ := store.GetElection(ctx, "elc_held")
	if held.Status != entities.ElectionStatusUpcoming {
		t.Fatalf("locked election must not be swept, got %s", held.Status)
	}

	// Each transition leaves a status-changed row for the relay.
	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 outbox rows, got %d", len(pending))
	}
	for _, row := range pending {
		if row.EventType != contractsv1.EventTypeElectionStatusChanged {
			t.Fatalf("unexpected outbox event type %s", row.EventType)
		}
	}

	// A second sweep is a no-op.
	if err := sweeper.RunOnce(ctx); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	pending, _ = store.ListPendingOutbox(ctx, 10)
	if len(pending) != 2 {
		t.Fatalf("idempotent sweep must not add rows, got %d", len(pending))
	}
}
