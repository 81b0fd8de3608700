package memory

import (
	"context"
	"testing"

	"quorum/contexts/identity-access/voter-directory/domain/entities"
	domainerrors "quorum/contexts/identity-access/voter-directory/domain/errors"
)

func TestUsernameLookupIgnoresCase(t *testing.T) {
	store := NewStore()
	store.SeedVoter(entities.Voter{VoterID: "vtr_1", Username: "Maya.Chen"})

	voter, err := store.GetVoterByUsername(context.Background(), "MAYA.CHEN")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if voter.VoterID != "vtr_1" {
		t.Fatalf("unexpected voter id %s", voter.VoterID)
	}

	if _, err := store.GetVoterByUsername(context.Background(), "unknown"); err != domainerrors.ErrVoterNotFound {
		t.Fatalf("expected ErrVoterNotFound, got %v", err)
	}
}

func TestSeedVoterReplacesExistingRow(t *testing.T) {
	store := NewStore()
	store.SeedVoter(entities.Voter{VoterID: "vtr_2", Username: "amir", FullName: "Amir"})
	store.SeedVoter(entities.Voter{VoterID: "vtr_2", Username: "amir", FullName: "Amir R."})

	voter, err := store.GetVoter(context.Background(), "vtr_2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if voter.FullName != "Amir R." {
		t.Fatalf("unexpected full name %s", voter.FullName)
	}

	total, err := store.CountVoters(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 voter, got %d", total)
	}
}
