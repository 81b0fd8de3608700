package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"quorum/contexts/election-administration/election-service/adapters/memory"
	"quorum/contexts/election-administration/election-service/domain/entities"
	domainerrors "quorum/contexts/election-administration/election-service/domain/errors"
)

func intPtr(value int) *int { return &value }

func TestListElectionsSyncsDriftedStatuses(t *testing.T) {
	now := time.Now().UTC()
	store := memory.NewStore([]entities.Election{
		{
			ElectionID: "elc_opened",
			Title:      "Opened Today",
			StartDate:  timePtr(now.AddDate(0, 0, -1)),
			EndDate:    timePtr(now.AddDate(0, 0, 1)),
			Status:     entities.ElectionStatusUpcoming,
		},
		{
			ElectionID:   "elc_frozen",
			Title:        "Operator Hold",
			StartDate:    timePtr(now.AddDate(0, 0, -1)),
			EndDate:      timePtr(now.AddDate(0, 0, 1)),
			Status:       entities.ElectionStatusUpcoming,
			StatusLocked: true,
		},
		{
			ElectionID: "elc_undated",
			Title:      "No Dates",
			Status:     entities.ElectionStatusUpcoming,
		},
	})
	uc := ListElectionsUseCase{Elections: store, Clock: store}

	items, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	byID := make(map[string]entities.Election, len(items))
	for _, item := range items {
		byID[item.ElectionID] = item
	}
	if byID["elc_opened"].Status != entities.ElectionStatusActive {
		t.Fatalf("drifted election not synced to active: %s", byID["elc_opened"].Status)
	}
	if byID["elc_frozen"].Status != entities.ElectionStatusUpcoming {
		t.Fatalf("locked election must keep its stored status, got %s", byID["elc_frozen"].Status)
	}
	if byID["elc_undated"].Status != entities.ElectionStatusUpcoming {
		t.Fatalf("dateless election has no derivable status, got %s", byID["elc_undated"].Status)
	}
}

func TestListElectionsForVoterFiltersByEligibility(t *testing.T) {
	store := memory.NewStore([]entities.Election{
		{ElectionID: "elc_open", Title: "Everyone", Status: entities.ElectionStatusActive},
		{ElectionID: "elc_g9", Title: "Grade 9 Only", Status: entities.ElectionStatusActive, AllowedGrade: intPtr(9)},
		{ElectionID: "elc_g9b", Title: "Grade 9 Section B", Status: entities.ElectionStatusActive, AllowedGrade: intPtr(9), AllowedSection: "B"},
		{ElectionID: "elc_all", Title: "Wildcard Section", Status: entities.ElectionStatusActive, AllowedSection: entities.SectionWildcard},
	})
	store.SeedVoter(entities.VoterProfile{VoterID: "vtr_9a", FullName: "Ida Santos", Grade: "9", Section: "A"})
	uc := ListElectionsForVoterUseCase{Elections: store, Voters: store, Clock: store}

	items, err := uc.Execute(context.Background(), "vtr_9a")
	if err != nil {
		t.Fatalf("list for voter failed: %v", err)
	}
	got := make(map[string]bool, len(items))
	for _, item := range items {
		got[item.ElectionID] = true
	}
	if !got["elc_open"] || !got["elc_g9"] || !got["elc_all"] {
		t.Fatalf("voter should see open, grade-matched and wildcard elections, got %v", got)
	}
	if got["elc_g9b"] {
		t.Fatal("section B election must be hidden from a section A voter")
	}

	if _, err := uc.Execute(context.Background(), "vtr_unknown"); !errors.Is(err, domainerrors.ErrVoterNotFound) {
		t.Fatalf("expected ErrVoterNotFound, got %v", err)
	}
}
