package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"quorum/contexts/identity-access/voter-directory/domain/entities"
	domainerrors "quorum/contexts/identity-access/voter-directory/domain/errors"
)

// Repository reads the voters table through GORM.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetVoterByUsername(ctx context.Context, username string) (entities.Voter, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, domainerrors.ErrVoterNotFound
		}
		return entities.Voter{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetVoter(ctx context.Context, voterID string) (entities.Voter, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, domainerrors.ErrVoterNotFound
		}
		return entities.Voter{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CountVoters(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&voterModel{}).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

type voterModel struct {
	VoterID      string    `gorm:"column:voter_id;primaryKey"`
	Username     string    `gorm:"column:username"`
	FullName     string    `gorm:"column:full_name"`
	Grade        string    `gorm:"column:grade"`
	Section      string    `gorm:"column:section"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (voterModel) TableName() string { return "voters" }

func (m voterModel) toEntity() entities.Voter {
	return entities.Voter{
		VoterID:      m.VoterID,
		Username:     m.Username,
		FullName:     m.FullName,
		Grade:        m.Grade,
		Section:      m.Section,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
