package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
	"gorm.io/gorm"
)

type MembershipRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Membership, error)
	// GetByUserAndID resolves a membership scoped to its owner, so callers can
	// validate ownership instead of trusting a raw membership id.
	GetByUserAndID(ctx context.Context, userID, id uuid.UUID) (*models.Membership, error)
	FirstForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Preload("Organization").
		First(&membership, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepository) GetByUserAndID(ctx context.Context, userID, id uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Preload("Organization").
		First(&membership, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

// FirstForUser returns the user's oldest membership. Ordering by created_at
// keeps the fallback stable across calls.
func (r *membershipRepository) FirstForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}
