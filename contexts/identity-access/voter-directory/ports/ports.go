package ports

import (
	"context"

	"quorum/contexts/identity-access/voter-directory/domain/entities"
)

// VoterRepository reads the voters table. The directory never writes voters at
// runtime; rosters are imported out of band.
type VoterRepository interface {
	GetVoterByUsername(ctx context.Context, username string) (entities.Voter, error)
	GetVoter(ctx context.Context, voterID string) (entities.Voter, error)
	CountVoters(ctx context.Context) (int, error)
}
