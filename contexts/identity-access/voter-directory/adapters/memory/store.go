package memory

import (
	"context"
	"strings"
	"sync"

	"quorum/contexts/identity-access/voter-directory/domain/entities"
	domainerrors "quorum/contexts/identity-access/voter-directory/domain/errors"
	"quorum/contexts/identity-access/voter-directory/ports"
)

// Store keeps the voter roster in memory for tests and local runs. Username
// lookup is case-insensitive, matching the collation of the voters table.
type Store struct {
	mu sync.RWMutex

	votersByID       map[string]entities.Voter
	voterIDByUsername map[string]string
}

func NewStore() *Store {
	return &Store{
		votersByID:       make(map[string]entities.Voter),
		voterIDByUsername: make(map[string]string),
	}
}

func (s *Store) SeedVoter(voter entities.Voter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter.VoterID = strings.TrimSpace(voter.VoterID)
	voter.Username = strings.TrimSpace(voter.Username)
	s.votersByID[voter.VoterID] = voter
	s.voterIDByUsername[strings.ToLower(voter.Username)] = voter.VoterID
}

func (s *Store) GetVoterByUsername(ctx context.Context, username string) (entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	voterID, ok := s.voterIDByUsername[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return entities.Voter{}, domainerrors.ErrVoterNotFound
	}
	return s.votersByID[voterID], nil
}

func (s *Store) GetVoter(ctx context.Context, voterID string) (entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	voter, ok := s.votersByID[strings.TrimSpace(voterID)]
	if !ok {
		return entities.Voter{}, domainerrors.ErrVoterNotFound
	}
	return voter, nil
}

func (s *Store) CountVoters(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.votersByID), nil
}

var _ ports.VoterRepository = (*Store)(nil)
