package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	// Update reassigns the membership and/or refreshes last_active. A nil
	// membershipID retains the previous membership.
	Update(ctx context.Context, id uuid.UUID, membershipID *uuid.UUID, lastActive time.Time) error
	// Delete is idempotent: deleting a missing id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	LastActiveForUser(ctx context.Context, userID uuid.UUID) (*models.Session, error)
	DeleteOthers(ctx context.Context, userID, keep uuid.UUID) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("Membership").
		Preload("Membership.Organization").
		First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, id uuid.UUID, membershipID *uuid.UUID, lastActive time.Time) error {
	updates := map[string]interface{}{
		"last_active": lastActive,
	}
	if membershipID != nil {
		updates["membership_id"] = *membershipID
	}
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Preload("Membership").
		Where("user_id = ?", userID).
		Order("last_active DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) LastActiveForUser(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_active DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeleteOthers(ctx context.Context, userID, keep uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id != ?", userID, keep).
		Delete(&models.Session{}).Error
}
