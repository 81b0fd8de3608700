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

func newCreateFixture(t *testing.T) (*memory.Store, CreateElectionUseCase) {
	t.Helper()
	store := memory.NewStore(nil)
	uc := CreateElectionUseCase{
		Elections:      store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: time.Hour,
	}
	return store, uc
}

func TestCreateElectionDefaultsToUpcoming(t *testing.T) {
	store, uc := newCreateFixture(t)
	now := time.Now().UTC()

	result, err := uc.Execute(context.Background(), CreateElectionCommand{
		IdempotencyKey: "key-create-1",
		Title:          "SSC General Election",
		StartDate:      timePtr(now.AddDate(0, 0, 1)),
		EndDate:        timePtr(now.AddDate(0, 0, 3)),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Election.Status != entities.ElectionStatusUpcoming {
		t.Fatalf("expected default upcoming status, got %s", result.Election.Status)
	}
	if result.Election.StatusLocked {
		t.Fatal("a new election must start unlocked")
	}
	if result.Replayed {
		t.Fatal("first call must not report a replay")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "election.created" {
		t.Fatalf("expected one election.created outbox row, got %+v", pending)
	}
}

func TestCreateElectionIdempotentReplay(t *testing.T) {
	_, uc := newCreateFixture(t)
	cmd := CreateElectionCommand{
		IdempotencyKey: "key-replay",
		Title:          "Homeroom Reps",
	}

	first, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !second.Replayed {
		t.Fatal("identical retry must be reported as a replay")
	}
	if second.Election.ElectionID != first.Election.ElectionID {
		t.Fatalf("replay returned a different election: %s vs %s", second.Election.ElectionID, first.Election.ElectionID)
	}

	// Same key with a different payload is a conflict, not a new election.
	cmd.Title = "Different Title"
	if _, err := uc.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected ErrIdempotencyKeyConflict, got %v", err)
	}
}

func TestCreateElectionValidation(t *testing.T) {
	_, uc := newCreateFixture(t)
	now := time.Now().UTC()
	ctx := context.Background()

	if _, err := uc.Execute(ctx, CreateElectionCommand{Title: "No Key"}); !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
	if _, err := uc.Execute(ctx, CreateElectionCommand{IdempotencyKey: "k1", Title: "   "}); !errors.Is(err, domainerrors.ErrInvalidElectionInput) {
		t.Fatalf("expected ErrInvalidElectionInput, got %v", err)
	}
	if _, err := uc.Execute(ctx, CreateElectionCommand{IdempotencyKey: "k2", Title: "Past Start", StartDate: timePtr(now.AddDate(0, 0, -2))}); !errors.Is(err, domainerrors.ErrStartDateInPast) {
		t.Fatalf("expected ErrStartDateInPast, got %v", err)
	}
	if _, err := uc.Execute(ctx, CreateElectionCommand{IdempotencyKey: "k3", Title: "Past End", EndDate: timePtr(now.AddDate(0, 0, -2))}); !errors.Is(err, domainerrors.ErrEndDateInPast) {
		t.Fatalf("expected ErrEndDateInPast, got %v", err)
	}
	if _, err := uc.Execute(ctx, CreateElectionCommand{
		IdempotencyKey: "k4",
		Title:          "Backwards Window",
		StartDate:      timePtr(now.AddDate(0, 0, 5)),
		EndDate:        timePtr(now.AddDate(0, 0, 2)),
	}); !errors.Is(err, domainerrors.ErrEndDateBeforeStart) {
		t.Fatalf("expected ErrEndDateBeforeStart, got %v", err)
	}
	if _, err := uc.Execute(ctx, CreateElectionCommand{IdempotencyKey: "k5", Title: "Bad Status", Status: "paused"}); !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// Starting today is allowed: the past check is date-granular.
	if _, err := uc.Execute(ctx, CreateElectionCommand{IdempotencyKey: "k6", Title: "Starts Today", StartDate: timePtr(now)}); err != nil {
		t.Fatalf("same-day start rejected: %v", err)
	}
}
