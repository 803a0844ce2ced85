package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
	"gorm.io/gorm"
)

// LoginAttemptRepository is append-only: attempts are written once and never
// mutated or deleted.
type LoginAttemptRepository interface {
	Create(ctx context.Context, attempt *models.LoginAttempt) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginAttempt, error)
}

type loginAttemptRepository struct {
	db *gorm.DB
}

func NewLoginAttemptRepository(db *gorm.DB) LoginAttemptRepository {
	return &loginAttemptRepository{db: db}
}

func (r *loginAttemptRepository) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *loginAttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginAttempt, error) {
	var attempts []models.LoginAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("attempted_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
