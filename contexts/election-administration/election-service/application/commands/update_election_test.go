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

func newUpdateFixture(t *testing.T, seed entities.Election) (*memory.Store, UpdateElectionUseCase) {
	t.Helper()
	store := memory.NewStore([]entities.Election{seed})
	uc := UpdateElectionUseCase{
		Elections:   store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
	}
	return store, uc
}

func TestUpdateElectionPartialEdit(t *testing.T) {
	now := time.Now().UTC()
	store, uc := newUpdateFixture(t, entities.Election{
		ElectionID: "elc_edit",
		Title:      "Old Title",
		StartDate:  timePtr(now.AddDate(0, 0, 1)),
		EndDate:    timePtr(now.AddDate(0, 0, 3)),
		Status:     entities.ElectionStatusUpcoming,
	})

	updated, err := uc.Execute(context.Background(), UpdateElectionCommand{
		ElectionID:   "elc_edit",
		Title:        strPtr("  New Title  "),
		ClearEndDate: true,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "New Title" {
		t.Fatalf("title not trimmed/updated: %q", updated.Title)
	}
	if updated.EndDate != nil {
		t.Fatal("end date should have been cleared")
	}
	if updated.StartDate == nil {
		t.Fatal("untouched start date must survive a partial edit")
	}
	if updated.Status != entities.ElectionStatusUpcoming {
		t.Fatalf("update must never touch status, got %s", updated.Status)
	}

	stored, err := store.GetElection(context.Background(), "elc_edit")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Title != "New Title" {
		t.Fatalf("edit not persisted, got %q", stored.Title)
	}
}

func TestUpdateElectionUnlockRestoresPassiveSync(t *testing.T) {
	now := time.Now().UTC()
	store, uc := newUpdateFixture(t, entities.Election{
		ElectionID:   "elc_frozen",
		Title:        "Frozen",
		StartDate:    timePtr(now.AddDate(0, 0, -1)),
		EndDate:      timePtr(now.AddDate(0, 0, 1)),
		Status:       entities.ElectionStatusUpcoming,
		StatusLocked: true,
	})
	ctx := context.Background()

	transitions, err := store.SyncElectionStatuses(ctx, now, 100)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(transitions) != 0 {
		t.Fatalf("locked election must be skipped by sync, got %+v", transitions)
	}

	unlocked := false
	if _, err := uc.Execute(ctx, UpdateElectionCommand{ElectionID: "elc_frozen", StatusLocked: &unlocked}); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	transitions, err = store.SyncElectionStatuses(ctx, now, 100)
	if err != nil {
		t.Fatalf("sync after unlock: %v", err)
	}
	if len(transitions) != 1 || transitions[0].To != entities.ElectionStatusActive {
		t.Fatalf("expected one upcoming->active transition, got %+v", transitions)
	}
}

func TestUpdateElectionValidation(t *testing.T) {
	now := time.Now().UTC()
	_, uc := newUpdateFixture(t, entities.Election{
		ElectionID: "elc_val",
		Title:      "Validate",
		StartDate:  timePtr(now.AddDate(0, 0, 5)),
		Status:     entities.ElectionStatusUpcoming,
	})
	ctx := context.Background()

	if _, err := uc.Execute(ctx, UpdateElectionCommand{ElectionID: "elc_missing"}); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
	if _, err := uc.Execute(ctx, UpdateElectionCommand{ElectionID: "elc_val", Title: strPtr("  ")}); !errors.Is(err, domainerrors.ErrInvalidElectionInput) {
		t.Fatalf("expected ErrInvalidElectionInput, got %v", err)
	}
	if _, err := uc.Execute(ctx, UpdateElectionCommand{ElectionID: "elc_val", StartDate: timePtr(now.AddDate(0, 0, -3))}); !errors.Is(err, domainerrors.ErrStartDateInPast) {
		t.Fatalf("expected ErrStartDateInPast, got %v", err)
	}
	// New end date landing before the existing start date is rejected.
	if _, err := uc.Execute(ctx, UpdateElectionCommand{ElectionID: "elc_val", EndDate: timePtr(now.AddDate(0, 0, 2))}); !errors.Is(err, domainerrors.ErrEndDateBeforeStart) {
		t.Fatalf("expected ErrEndDateBeforeStart, got %v", err)
	}
}
