package application

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"quorum/contexts/identity-access/voter-directory/domain/entities"
	domainerrors "quorum/contexts/identity-access/voter-directory/domain/errors"
	"quorum/contexts/identity-access/voter-directory/ports"
)

type Service struct {
	Voters ports.VoterRepository
	Logger *slog.Logger
}

// VerifyCredentials resolves the voter by username and checks the password
// against the stored hash. Unknown usernames and wrong passwords both come
// back as ErrInvalidCredentials so callers cannot probe the roster.
func (s Service) VerifyCredentials(
	ctx context.Context,
	username string,
	password string,
) (entities.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return entities.Profile{}, domainerrors.ErrInvalidRequest
	}

	voter, err := s.Voters.GetVoterByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrVoterNotFound) {
			return entities.Profile{}, domainerrors.ErrInvalidCredentials
		}
		return entities.Profile{}, err
	}

	if !verifyPassword(voter.PasswordHash, password) {
		resolveLogger(s.Logger).Warn("voter credentials rejected",
			"event", "voter_credentials_rejected",
			"module", "identity-access/voter-directory",
			"layer", "application",
			"username", username,
		)
		return entities.Profile{}, domainerrors.ErrInvalidCredentials
	}

	resolveLogger(s.Logger).Debug("voter credentials verified",
		"event", "voter_credentials_verified",
		"module", "identity-access/voter-directory",
		"layer", "application",
		"voter_id", voter.VoterID,
	)
	return voter.Profile(), nil
}

func (s Service) GetProfile(ctx context.Context, voterID string) (entities.Profile, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return entities.Profile{}, domainerrors.ErrInvalidRequest
	}
	voter, err := s.Voters.GetVoter(ctx, voterID)
	if err != nil {
		return entities.Profile{}, err
	}
	return voter.Profile(), nil
}

func (s Service) CountVoters(ctx context.Context) (int, error) {
	return s.Voters.CountVoters(ctx)
}

// verifyPassword handles the hash formats found in imported rosters: bcrypt
// rows written with the $2y$ variant marker, and legacy rows holding a bare
// sha256 hex digest of the password.
func verifyPassword(storedHash string, password string) bool {
	storedHash = strings.TrimSpace(storedHash)
	if storedHash == "" {
		return false
	}
	if isLegacySHA256Hex(storedHash) {
		sum := sha256.Sum256([]byte(password))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(storedHash))) == 1
	}
	if strings.HasPrefix(storedHash, "$2y$") {
		storedHash = "$2b$" + storedHash[len("$2y$"):]
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

func isLegacySHA256Hex(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	for _, c := range hash {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
