package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quorum/contexts/identity-access/voter-directory/adapters/memory"
	"quorum/contexts/identity-access/voter-directory/domain/entities"
	domainerrors "quorum/contexts/identity-access/voter-directory/domain/errors"
)

func seedVoter(t *testing.T, store *memory.Store, username string, password string) entities.Voter {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	voter := entities.Voter{
		VoterID:      "vtr_" + username,
		Username:     username,
		FullName:     "Voter " + username,
		Grade:        "9",
		Section:      "A",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	store.SeedVoter(voter)
	return voter
}

func TestVerifyCredentials(t *testing.T) {
	store := memory.NewStore()
	service := Service{Voters: store}
	seedVoter(t, store, "amara.lopez", "S3cret!pass")

	profile, err := service.VerifyCredentials(context.Background(), "amara.lopez", "S3cret!pass")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if profile.VoterID != "vtr_amara.lopez" {
		t.Fatalf("unexpected voter_id %s", profile.VoterID)
	}

	if _, err := service.VerifyCredentials(context.Background(), "amara.lopez", "wrong"); err != domainerrors.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyCredentialsUnknownUsername(t *testing.T) {
	store := memory.NewStore()
	service := Service{Voters: store}

	_, err := service.VerifyCredentials(context.Background(), "nobody", "whatever")
	if err != domainerrors.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyCredentialsUsernameCaseInsensitive(t *testing.T) {
	store := memory.NewStore()
	service := Service{Voters: store}
	seedVoter(t, store, "Jon.Reyes", "hunter2pass")

	if _, err := service.VerifyCredentials(context.Background(), "jon.reyes", "hunter2pass"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}

func TestVerifyCredentialsPHPBcryptVariant(t *testing.T) {
	store := memory.NewStore()
	service := Service{Voters: store}

	hash, err := bcrypt.GenerateFromPassword([]byte("imported-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	store.SeedVoter(entities.Voter{
		VoterID:      "vtr_php",
		Username:     "php.import",
		PasswordHash: "$2y$" + strings.TrimPrefix(string(hash), "$2a$"),
	})

	if _, err := service.VerifyCredentials(context.Background(), "php.import", "imported-pass"); err != nil {
		t.Fatalf("verify failed for $2y$ hash: %v", err)
	}
}

func TestVerifyCredentialsLegacySHA256(t *testing.T) {
	store := memory.NewStore()
	service := Service{Voters: store}

	sum := sha256.Sum256([]byte("legacy-pass"))
	store.SeedVoter(entities.Voter{
		VoterID:      "vtr_legacy",
		Username:     "legacy.import",
		PasswordHash: hex.EncodeToString(sum[:]),
	})

	if _, err := service.VerifyCredentials(context.Background(), "legacy.import", "legacy-pass"); err != nil {
		t.Fatalf("verify failed for legacy hash: %v", err)
	}
	if _, err := service.VerifyCredentials(context.Background(), "legacy.import", "legacy-wrong"); err != domainerrors.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyCredentialsBlankInput(t *testing.T) {
	store := memory.NewStore()
	service := Service{Voters: store}

	if _, err := service.VerifyCredentials(context.Background(), "  ", "pass"); err != domainerrors.ErrInvalidRequest {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := service.VerifyCredentials(context.Background(), "someone", ""); err != domainerrors.ErrInvalidRequest {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	store := memory.NewStore()
	service := Service{Voters: store}
	seedVoter(t, store, "card.holder", "irrelevant")

	profile, err := service.GetProfile(context.Background(), "vtr_card.holder")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.Grade != "9" || profile.Section != "A" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	if _, err := service.GetProfile(context.Background(), "vtr_missing"); err != domainerrors.ErrVoterNotFound {
		t.Fatalf("expected ErrVoterNotFound, got %v", err)
	}
}

func TestCountVoters(t *testing.T) {
	store := memory.NewStore()
	service := Service{Voters: store}
	seedVoter(t, store, "one", "pw-one-111")
	seedVoter(t, store, "two", "pw-two-222")

	total, err := service.CountVoters(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 voters, got %d", total)
	}
}
